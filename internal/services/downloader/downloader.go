package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/denisAlshanov/vidgrab/internal/config"
	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

const defaultChunkSize = 1024 * 1024

// ProgressFunc receives bytes transferred so far and the fixed total.
// It runs synchronously on the downloading goroutine.
type ProgressFunc func(bytesTransferred, totalBytes int64)

type Downloader struct {
	outputDir string
	chunkSize int
}

func NewDownloader(cfg *config.DownloadConfig) *Downloader {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Downloader{
		outputDir: cfg.OutputDir,
		chunkSize: chunkSize,
	}
}

// OutputDir returns the absolute output directory. A relative directory is
// resolved against the current working directory.
func (d *Downloader) OutputDir() (string, error) {
	return filepath.Abs(d.outputDir)
}

// Download writes the stream to <outputDir>/<DefaultFilename>, replacing any
// previous file of the same name. A failed transfer leaves the partial file
// in place.
func (d *Downloader) Download(ctx context.Context, stream models.StreamOption, onProgress ProgressFunc) (*models.DownloadResult, error) {
	dir, err := d.OutputDir()
	if err != nil {
		return nil, &utils.TransferError{Path: d.outputDir, Err: fmt.Errorf("failed to resolve output directory: %w", err)}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &utils.TransferError{Path: dir, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	fileName := filepath.Base(stream.DefaultFilename)
	if fileName == "." || fileName == string(filepath.Separator) {
		return nil, &utils.TransferError{Path: dir, Err: errors.New("stream has no default filename")}
	}
	path := filepath.Join(dir, fileName)

	if stream.Handle == nil {
		return nil, &utils.TransferError{Path: path, Err: errors.New("stream handle is not set")}
	}

	totalBytes := stream.FileSizeBytes

	reader, reportedSize, err := stream.Handle.Open(ctx)
	if err != nil {
		return nil, &utils.TransferError{Path: path, Err: err}
	}
	defer reader.Close()

	if totalBytes <= 0 {
		totalBytes = reportedSize
	}
	if totalBytes <= 0 {
		return nil, &utils.TransferError{Path: path, Err: errors.New("stream size is unknown")}
	}

	fields := utils.Fields{
		"stream_id":   stream.ID,
		"file_path":   path,
		"total_bytes": totalBytes,
	}
	utils.LogInfo(ctx, "Download started", fields)

	if err := d.transfer(reader, path, totalBytes, onProgress); err != nil {
		utils.LogError(ctx, "Download failed", err, fields)
		return nil, &utils.TransferError{Path: path, Err: err}
	}

	utils.LogInfo(ctx, "Download completed", fields)

	return &models.DownloadResult{
		FilePath:   path,
		FileName:   fileName,
		TotalBytes: totalBytes,
	}, nil
}

func (d *Downloader) transfer(reader io.Reader, path string, totalBytes int64, onProgress ProgressFunc) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	buf := make([]byte, d.chunkSize)
	bytesRemaining := totalBytes
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			if int64(n) > bytesRemaining {
				return fmt.Errorf("stream exceeded reported size of %d bytes", totalBytes)
			}
			if _, err := file.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			bytesRemaining -= int64(n)
			if onProgress != nil {
				onProgress(totalBytes-bytesRemaining, totalBytes)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read stream: %w", readErr)
		}
	}

	if bytesRemaining > 0 {
		return fmt.Errorf("stream ended %d bytes early: %w", bytesRemaining, io.ErrUnexpectedEOF)
	}
	return nil
}
