package download

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/services/youtube"
)

func resolveVideo(ctx context.Context, resolver youtube.Resolver, url string) tea.Cmd {
	return func() tea.Msg {
		video, err := resolver.Resolve(ctx, url)
		return resolvedMsg{url: url, video: video, err: err}
	}
}

// startDownload runs the transfer in its own goroutine and returns the
// channel it reports on. Progress samples arrive in order, followed by
// exactly one downloadDoneMsg, then the channel is closed.
func startDownload(ctx context.Context, dl Downloader, stream models.StreamOption) <-chan tea.Msg {
	events := make(chan tea.Msg, 16)

	go func() {
		defer close(events)

		result, err := dl.Download(ctx, stream, func(bytesTransferred, totalBytes int64) {
			msg := progressMsg{progress: models.DownloadProgress{
				BytesTransferred: bytesTransferred,
				TotalBytes:       totalBytes,
			}}
			select {
			case events <- msg:
			case <-ctx.Done():
			}
		})

		select {
		case events <- downloadDoneMsg{result: result, err: err}:
		case <-ctx.Done():
		}
	}()

	return events
}

// waitForEvent delivers the next message from a running download.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
