package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/denisAlshanov/vidgrab/internal/config"
	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

type Client struct {
	client *youtube.Client
}

// NewClient creates a YouTube client. Only response headers are bounded by
// a timeout; stream bodies may take as long as the transfer needs.
func NewClient(cfg *config.YouTubeConfig) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			IdleConnTimeout:       90 * time.Second,
		},
	}

	return &Client{
		client: &youtube.Client{
			HTTPClient: httpClient,
		},
	}
}

// Resolve retrieves video metadata and its progressive streams.
func (c *Client) Resolve(ctx context.Context, rawURL string) (*models.Video, error) {
	normalized, err := validateURL(rawURL)
	if err != nil {
		return nil, &utils.InvalidSourceError{URL: rawURL, Err: err}
	}

	video, err := c.client.GetVideoContext(ctx, normalized)
	if err != nil {
		return nil, &utils.InvalidSourceError{URL: rawURL, Err: describeFetchError(err)}
	}

	utils.LogDebug(ctx, "Resolved video", utils.Fields{
		"video_id": video.ID,
		"formats":  len(video.Formats),
	})

	return &models.Video{
		Metadata: metadataFor(video),
		Streams:  c.progressiveStreams(video),
	}, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("malformed URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("malformed URL: missing scheme or host")
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	return parsed.String(), nil
}

func describeFetchError(err error) error {
	switch {
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return fmt.Errorf("restricted content: %w", err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("no video ID in URL: %w", err)
	}

	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return fmt.Errorf("video unavailable: %w", err)
	}

	return fmt.Errorf("failed to get video info: %w", err)
}

func metadataFor(video *youtube.Video) models.VideoMetadata {
	meta := models.VideoMetadata{
		ID:              video.ID,
		Title:           video.Title,
		DurationSeconds: int64(video.Duration.Seconds()),
		ViewCount:       int64(video.Views),
		Author:          video.Author,
	}
	if len(video.Thumbnails) > 0 {
		meta.ThumbnailURL = video.Thumbnails[0].URL
	}
	return meta
}

// progressiveStreams keeps formats that carry audio and video in one file,
// in the order the source lists them.
func (c *Client) progressiveStreams(video *youtube.Video) []models.StreamOption {
	streams := make([]models.StreamOption, 0)
	for i := range video.Formats {
		format := &video.Formats[i]
		if !isProgressive(format) {
			continue
		}

		streams = append(streams, models.StreamOption{
			ID:              streamID(format),
			Itag:            format.ItagNo,
			ResolutionLabel: resolutionLabel(format),
			MimeType:        format.MimeType,
			FileSizeBytes:   format.ContentLength,
			DefaultFilename: defaultFilename(video.Title, format.MimeType),
			Handle: &streamHandle{
				client: c.client,
				video:  video,
				format: format,
			},
		})
	}
	return streams
}

func isProgressive(format *youtube.Format) bool {
	if format.AudioChannels == 0 || format.Width == 0 || format.Height == 0 {
		return false
	}
	return strings.HasPrefix(format.MimeType, "video/")
}

func streamID(format *youtube.Format) string {
	return fmt.Sprintf("itag-%d", format.ItagNo)
}

func resolutionLabel(format *youtube.Format) string {
	if format.QualityLabel != "" {
		return format.QualityLabel
	}
	return fmt.Sprintf("%dp", format.Height)
}

func defaultFilename(title, mimeType string) string {
	name := invalidFilenameChars.ReplaceAllString(title, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "video"
	}
	if r := []rune(name); len(r) > 200 {
		name = string(r[:200])
	}
	return name + "." + mimeToExt(mimeType)
}

func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(strings.TrimSpace(mime), "/")
	if len(parts) == 2 {
		switch parts[1] {
		case "3gpp":
			return "3gp"
		case "":
		default:
			return parts[1]
		}
	}
	return "mp4"
}

type streamHandle struct {
	client *youtube.Client
	video  *youtube.Video
	format *youtube.Format
}

func (h *streamHandle) Open(ctx context.Context) (io.ReadCloser, int64, error) {
	stream, size, err := h.client.GetStreamContext(ctx, h.video, h.format)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stream: %w", err)
	}
	return stream, size, nil
}
