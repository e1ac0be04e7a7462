package downloader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/denisAlshanov/vidgrab/internal/config"
	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

// chunkReader yields data in the given chunk sizes, then an optional error.
type chunkReader struct {
	data   []byte
	chunks []int
	err    error
	closed bool
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 || len(r.data) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := r.chunks[0]
	if n > len(p) {
		r.chunks[0] = n - len(p)
		n = len(p)
	} else {
		r.chunks = r.chunks[1:]
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	return nil
}

type fakeHandle struct {
	newReader func() *chunkReader
	size      int64
	openErr   error
	opened    int
	last      *chunkReader
}

func (h *fakeHandle) Open(ctx context.Context) (io.ReadCloser, int64, error) {
	h.opened++
	if h.openErr != nil {
		return nil, 0, h.openErr
	}
	h.last = h.newReader()
	return h.last, h.size, nil
}

type progressCall struct {
	transferred, total int64
}

func newTestDownloader(t *testing.T, chunkSize int) (*Downloader, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	return NewDownloader(&config.DownloadConfig{OutputDir: dir, ChunkSize: chunkSize}), dir
}

func payload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestDownloadReportsMonotonicProgress(t *testing.T) {
	testCases := []struct {
		name   string
		chunks []int
	}{
		{name: "Single chunk", chunks: []int{100}},
		{name: "Even chunks", chunks: []int{25, 25, 25, 25}},
		{name: "Uneven chunks", chunks: []int{1, 60, 7, 32}},
		{name: "Chunks larger than buffer", chunks: []int{100}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, dir := newTestDownloader(t, 64)
			data := payload(100)
			handle := &fakeHandle{newReader: func() *chunkReader {
				return &chunkReader{data: data, chunks: append([]int(nil), tc.chunks...)}
			}}
			stream := models.StreamOption{ID: "itag-18", FileSizeBytes: 100, DefaultFilename: "clip.mp4", Handle: handle}

			var calls []progressCall
			result, err := d.Download(context.Background(), stream, func(transferred, total int64) {
				calls = append(calls, progressCall{transferred, total})
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if len(calls) == 0 {
				t.Fatal("Expected progress callbacks")
			}
			var prev int64
			reachedTotal := 0
			for i, c := range calls {
				if c.total != 100 {
					t.Errorf("call %d: expected total 100, got %d", i, c.total)
				}
				if c.transferred < prev {
					t.Errorf("call %d: progress went backwards (%d < %d)", i, c.transferred, prev)
				}
				if c.transferred > c.total {
					t.Errorf("call %d: transferred %d exceeds total %d", i, c.transferred, c.total)
				}
				if c.transferred == c.total {
					reachedTotal++
				}
				prev = c.transferred
			}
			if last := calls[len(calls)-1]; last.transferred != 100 {
				t.Errorf("Expected final progress 100, got %d", last.transferred)
			}
			if reachedTotal != 1 {
				t.Errorf("Expected total reported exactly once, got %d", reachedTotal)
			}

			expectedPath := filepath.Join(dir, "clip.mp4")
			if result.FilePath != expectedPath {
				t.Errorf("Expected path %s, got %s", expectedPath, result.FilePath)
			}
			if !filepath.IsAbs(result.FilePath) {
				t.Errorf("Expected absolute path, got %s", result.FilePath)
			}
			written, err := os.ReadFile(expectedPath)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			if !bytes.Equal(written, data) {
				t.Error("Written file does not match stream content")
			}
			if !handle.last.closed {
				t.Error("Expected stream to be closed")
			}
		})
	}
}

func TestDownloadOverwritesPreviousFile(t *testing.T) {
	d, dir := newTestDownloader(t, 16)
	first := payload(40)
	second := bytes.Repeat([]byte{7}, 20)

	content := first
	handle := &fakeHandle{newReader: func() *chunkReader {
		return &chunkReader{data: content, chunks: []int{16, 16, 16}}
	}}

	stream := models.StreamOption{FileSizeBytes: 40, DefaultFilename: "same.mp4", Handle: handle}
	if _, err := d.Download(context.Background(), stream, nil); err != nil {
		t.Fatalf("First download failed: %v", err)
	}

	content = second
	stream.FileSizeBytes = 20
	result, err := d.Download(context.Background(), stream, nil)
	if err != nil {
		t.Fatalf("Second download failed: %v", err)
	}

	if result.FilePath != filepath.Join(dir, "same.mp4") {
		t.Errorf("Unexpected path %s", result.FilePath)
	}
	written, _ := os.ReadFile(result.FilePath)
	if !bytes.Equal(written, second) {
		t.Errorf("Expected second download to replace the file, got %d bytes", len(written))
	}
}

func TestDownloadUsesReportedSizeWhenUnknown(t *testing.T) {
	d, _ := newTestDownloader(t, 8)
	handle := &fakeHandle{
		size: 10,
		newReader: func() *chunkReader {
			return &chunkReader{data: payload(10), chunks: []int{8, 2}}
		},
	}

	var last progressCall
	result, err := d.Download(context.Background(), models.StreamOption{DefaultFilename: "a.mp4", Handle: handle},
		func(transferred, total int64) { last = progressCall{transferred, total} })
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.TotalBytes != 10 || last.total != 10 || last.transferred != 10 {
		t.Errorf("Expected total 10, got result %d, last call %+v", result.TotalBytes, last)
	}
}

func TestDownloadFailures(t *testing.T) {
	openErr := errors.New("handle invalidated")
	readErr := errors.New("connection reset")

	testCases := []struct {
		name     string
		size     int64
		handle   *fakeHandle
		wantIs   error
		wantFile bool
	}{
		{
			name:   "Open fails",
			size:   10,
			handle: &fakeHandle{openErr: openErr},
			wantIs: openErr,
		},
		{
			name: "Stream ends early",
			size: 10,
			handle: &fakeHandle{newReader: func() *chunkReader {
				return &chunkReader{data: payload(4), chunks: []int{4}}
			}},
			wantIs:   io.ErrUnexpectedEOF,
			wantFile: true,
		},
		{
			name: "Network interruption",
			size: 10,
			handle: &fakeHandle{newReader: func() *chunkReader {
				return &chunkReader{data: payload(4), chunks: []int{4}, err: readErr}
			}},
			wantIs:   readErr,
			wantFile: true,
		},
		{
			name: "Stream longer than reported",
			size: 4,
			handle: &fakeHandle{newReader: func() *chunkReader {
				return &chunkReader{data: payload(8), chunks: []int{8}}
			}},
			wantFile: true,
		},
		{
			name: "Unknown size",
			size: 0,
			handle: &fakeHandle{newReader: func() *chunkReader {
				return &chunkReader{data: payload(8), chunks: []int{8}}
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, dir := newTestDownloader(t, 8)
			stream := models.StreamOption{FileSizeBytes: tc.size, DefaultFilename: "f.mp4", Handle: tc.handle}

			var calls []progressCall
			result, err := d.Download(context.Background(), stream, func(transferred, total int64) {
				calls = append(calls, progressCall{transferred, total})
			})
			if result != nil {
				t.Errorf("Expected no result, got %+v", result)
			}

			var transferErr *utils.TransferError
			if !errors.As(err, &transferErr) {
				t.Fatalf("Expected TransferError, got %v", err)
			}
			if tc.wantIs != nil && !errors.Is(err, tc.wantIs) {
				t.Errorf("Expected error wrapping %v, got %v", tc.wantIs, err)
			}
			for _, c := range calls {
				if c.transferred > c.total {
					t.Errorf("transferred %d exceeds total %d", c.transferred, c.total)
				}
			}

			_, statErr := os.Stat(filepath.Join(dir, "f.mp4"))
			if tc.wantFile && statErr != nil {
				t.Errorf("Expected partial file to remain, got %v", statErr)
			}
		})
	}
}

func TestDownloadRejectsMissingHandle(t *testing.T) {
	d, _ := newTestDownloader(t, 8)
	_, err := d.Download(context.Background(), models.StreamOption{FileSizeBytes: 1, DefaultFilename: "x.mp4"}, nil)

	var transferErr *utils.TransferError
	if !errors.As(err, &transferErr) {
		t.Fatalf("Expected TransferError, got %v", err)
	}
}

func TestDownloadStripsDirectoryFromFilename(t *testing.T) {
	d, dir := newTestDownloader(t, 8)
	handle := &fakeHandle{newReader: func() *chunkReader {
		return &chunkReader{data: payload(3), chunks: []int{3}}
	}}

	result, err := d.Download(context.Background(), models.StreamOption{FileSizeBytes: 3, DefaultFilename: "../../escape.mp4", Handle: handle}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.FilePath != filepath.Join(dir, "escape.mp4") {
		t.Errorf("Expected file inside output dir, got %s", result.FilePath)
	}
}

func TestOutputDirRelativeToWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	d := NewDownloader(&config.DownloadConfig{OutputDir: "downloads"})
	dir, err := d.OutputDir()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if dir != filepath.Join(wd, "downloads") {
		t.Errorf("Expected %s, got %s", filepath.Join(wd, "downloads"), dir)
	}
	if d.chunkSize != defaultChunkSize {
		t.Errorf("Expected default chunk size, got %d", d.chunkSize)
	}
}

func TestQualityOptions(t *testing.T) {
	streams := []models.StreamOption{
		{ID: "itag-18", ResolutionLabel: "360p", FileSizeBytes: 1536},
		{ID: "itag-43", ResolutionLabel: "360p", FileSizeBytes: 1536},
		{ID: "itag-22", ResolutionLabel: "720p", FileSizeBytes: 1024 * 1024},
	}

	options := QualityOptions(streams)
	if len(options) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(options))
	}
	if options[0].Label != "360p (1.50 KB)" || options[1].Label != "360p (1.50 KB)" {
		t.Errorf("Unexpected labels %q, %q", options[0].Label, options[1].Label)
	}
	if options[0].ID == options[1].ID {
		t.Error("Expected colliding labels to keep distinct IDs")
	}
	if options[2].Label != "720p (1.00 MB)" {
		t.Errorf("Unexpected label %q", options[2].Label)
	}

	if got := QualityOptions(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil options, got %v", got)
	}

	s, ok := FindStream(streams, "itag-43")
	if !ok || s.ID != "itag-43" {
		t.Errorf("Expected to find itag-43, got %+v, %v", s, ok)
	}
	if _, ok := FindStream(streams, "itag-999"); ok {
		t.Error("Expected itag-999 to be missing")
	}
}
