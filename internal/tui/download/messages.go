package download

import "github.com/denisAlshanov/vidgrab/internal/models"

// Message types for async operations

type resolvedMsg struct {
	url   string
	video *models.Video
	err   error
}

type progressMsg struct {
	progress models.DownloadProgress
}

type downloadDoneMsg struct {
	result *models.DownloadResult
	err    error
}
