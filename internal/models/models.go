package models

import (
	"context"
	"fmt"
	"io"

	"github.com/denisAlshanov/vidgrab/internal/utils"
)

type VideoMetadata struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationSeconds int64  `json:"duration_seconds"`
	ViewCount       int64  `json:"view_count"`
	Author          string `json:"author"`
}

// StreamHandle opens the byte stream behind a StreamOption. The returned
// size is the length reported by the source, or 0 when unknown.
type StreamHandle interface {
	Open(ctx context.Context) (io.ReadCloser, int64, error)
}

// StreamOption is one progressive (audio+video) stream of a resolved video.
type StreamOption struct {
	ID              string       `json:"id"`
	Itag            int          `json:"itag"`
	ResolutionLabel string       `json:"resolution"`
	MimeType        string       `json:"mime_type"`
	FileSizeBytes   int64        `json:"file_size"`
	DefaultFilename string       `json:"default_filename"`
	Handle          StreamHandle `json:"-"`
}

// Label is the human-readable selector text, e.g. "720p (12.40 MB)".
// Two options may share a label; ID tells them apart.
func (s StreamOption) Label() string {
	return fmt.Sprintf("%s (%s)", s.ResolutionLabel, utils.FormatSize(s.FileSizeBytes))
}

type Video struct {
	Metadata VideoMetadata
	Streams  []StreamOption
}

type DownloadProgress struct {
	BytesTransferred int64 `json:"bytes_transferred"`
	TotalBytes       int64 `json:"total_bytes"`
}

// Fraction is the completed share in [0, 1].
func (p DownloadProgress) Fraction() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.BytesTransferred) / float64(p.TotalBytes)
}

// Status is the line shown under the progress bar.
func (p DownloadProgress) Status() string {
	return fmt.Sprintf("Downloading... %s/%s", utils.FormatSize(p.BytesTransferred), utils.FormatSize(p.TotalBytes))
}

type DownloadResult struct {
	FilePath   string `json:"file_path"`
	FileName   string `json:"file_name"`
	TotalBytes int64  `json:"total_bytes"`
}

type VideoInfoRequest struct {
	URL string `json:"url" binding:"required"`
}

type VideoInfoResponse struct {
	Video    VideoMetadata   `json:"video"`
	Length   string          `json:"length"`
	Views    string          `json:"views"`
	Options  []QualityOption `json:"options"`
	Selected string          `json:"selected,omitempty"`
}

type QualityOption struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Resolution    string `json:"resolution"`
	FileSize      int64  `json:"file_size"`
	FileSizeHuman string `json:"file_size_human"`
}

type DownloadQuery struct {
	URL      string `form:"url" binding:"required"`
	StreamID string `form:"stream_id" binding:"required"`
}

type ProgressEvent struct {
	BytesTransferred int64   `json:"bytes_transferred"`
	TotalBytes       int64   `json:"total_bytes"`
	Percent          float64 `json:"percent"`
	Status           string  `json:"status"`
}

type CompleteEvent struct {
	Message     string `json:"message"`
	FileName    string `json:"file_name"`
	TotalBytes  int64  `json:"total_bytes"`
	DownloadURL string `json:"download_url"`
}

// NewProgressEvent renders a progress sample for the wire.
func NewProgressEvent(p DownloadProgress) ProgressEvent {
	return ProgressEvent{
		BytesTransferred: p.BytesTransferred,
		TotalBytes:       p.TotalBytes,
		Percent:          p.Fraction() * 100,
		Status:           p.Status(),
	}
}
