// Command tui is a terminal front end for the video downloader.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/denisAlshanov/vidgrab/internal/config"
	"github.com/denisAlshanov/vidgrab/internal/services/downloader"
	"github.com/denisAlshanov/vidgrab/internal/services/youtube"
	"github.com/denisAlshanov/vidgrab/internal/tui/download"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Logs would corrupt the terminal UI
	var logOutput io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}
	utils.SetLogOutput(logOutput)
	if err := utils.ConfigureLogger(cfg.Log.Level); err != nil {
		utils.GetLogger().Warnf("%v, defaulting to info", err)
	}

	ctx := utils.WithCorrelationID(context.Background(), utils.GenerateCorrelationID())

	model := download.NewModel(ctx, youtube.NewClient(&cfg.YouTube), downloader.NewDownloader(&cfg.Download))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
