package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/services/downloader"
	"github.com/denisAlshanov/vidgrab/internal/services/youtube"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

// StreamDownloader transfers one stream to local disk.
type StreamDownloader interface {
	Download(ctx context.Context, stream models.StreamOption, onProgress downloader.ProgressFunc) (*models.DownloadResult, error)
}

type VideoHandler struct {
	resolver   youtube.Resolver
	downloader StreamDownloader
}

func NewVideoHandler(resolver youtube.Resolver, downloader StreamDownloader) *VideoHandler {
	return &VideoHandler{
		resolver:   resolver,
		downloader: downloader,
	}
}

// Info godoc
// @Summary Resolve a video URL
// @Description Fetch video metadata and the list of progressive (audio+video) streams available for download
// @Tags video
// @Accept json
// @Produce json
// @Param request body models.VideoInfoRequest true "Video URL"
// @Success 200 {object} models.VideoInfoResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/video/info [post]
func (h *VideoHandler) Info(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.VideoInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, utils.NewValidationError("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		}))
		return
	}

	video, err := h.resolver.Resolve(ctx, req.URL)
	if err != nil {
		utils.LogWarn(ctx, "Failed to resolve video", utils.Fields{
			"url":   req.URL,
			"error": err.Error(),
		})
		errorResponse(c, utils.ToAppError(err))
		return
	}

	options := downloader.QualityOptions(video.Streams)
	response := models.VideoInfoResponse{
		Video:   video.Metadata,
		Length:  utils.FormatDuration(video.Metadata.DurationSeconds),
		Views:   utils.FormatCount(video.Metadata.ViewCount),
		Options: options,
	}
	if len(options) > 0 {
		response.Selected = options[0].ID
	}

	c.JSON(http.StatusOK, response)
}

// Download godoc
// @Summary Download a stream with live progress
// @Description Resolve the URL again, download the selected stream into the output directory and report progress as Server-Sent Events. Emits "progress" events, then one "complete" or "failed" event.
// @Tags video
// @Produce text/event-stream
// @Param url query string true "Video URL"
// @Param stream_id query string true "Stream ID from /api/v1/video/info"
// @Success 200 {object} models.ProgressEvent
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/video/download [get]
func (h *VideoHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()

	var query models.DownloadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errorResponse(c, utils.NewValidationError("Invalid query parameters", map[string]interface{}{
			"error": err.Error(),
		}))
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	video, err := h.resolver.Resolve(ctx, query.URL)
	if err != nil {
		utils.LogWarn(ctx, "Failed to resolve video", utils.Fields{
			"url":   query.URL,
			"error": err.Error(),
		})
		failedEvent(c, utils.ToAppError(err))
		return
	}

	stream, ok := downloader.FindStream(video.Streams, query.StreamID)
	if !ok {
		failedEvent(c, utils.NewStreamNotFoundError(query.StreamID))
		return
	}

	result, err := h.downloader.Download(ctx, stream, func(bytesTransferred, totalBytes int64) {
		c.SSEvent("progress", models.NewProgressEvent(models.DownloadProgress{
			BytesTransferred: bytesTransferred,
			TotalBytes:       totalBytes,
		}))
		c.Writer.Flush()
	})
	if err != nil {
		failedEvent(c, utils.ToAppError(err))
		return
	}

	c.SSEvent("complete", models.CompleteEvent{
		Message:     "Download completed!",
		FileName:    result.FileName,
		TotalBytes:  result.TotalBytes,
		DownloadURL: "/api/v1/files/" + url.PathEscape(result.FileName),
	})
	c.Writer.Flush()
}

func failedEvent(c *gin.Context, err *utils.AppError) {
	c.SSEvent("failed", gin.H{
		"error":      err,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()
}

func errorResponse(c *gin.Context, err *utils.AppError) {
	c.JSON(err.StatusCode, gin.H{
		"error":      err,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
