package youtube

import (
	"context"

	"github.com/denisAlshanov/vidgrab/internal/models"
)

// Resolver turns a video URL into metadata and its progressive streams.
type Resolver interface {
	// Resolve fails with *utils.InvalidSourceError when the URL is malformed
	// or the video cannot be located. A video without progressive streams is
	// not an error; Streams is empty.
	Resolve(ctx context.Context, rawURL string) (*models.Video, error)
}
