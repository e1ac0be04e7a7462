// Package main provides the entry point for the Video Downloader service.
// @title Video Downloader API
// @version 1.0
// @description Resolve a video URL, list its progressive streams and download one with live progress.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/denisAlshanov/vidgrab/docs" // Import for swagger docs
	"github.com/denisAlshanov/vidgrab/internal/api/handlers"
	"github.com/denisAlshanov/vidgrab/internal/api/router"
	"github.com/denisAlshanov/vidgrab/internal/config"
	"github.com/denisAlshanov/vidgrab/internal/services/downloader"
	"github.com/denisAlshanov/vidgrab/internal/services/youtube"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.GetLogger()
	if err := utils.ConfigureLogger(cfg.Log.Level); err != nil {
		logger.Warnf("%v, defaulting to info", err)
	}
	logger.Info("Starting Video Downloader service")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	resolver := youtube.NewClient(&cfg.YouTube)
	downloaderService := downloader.NewDownloader(&cfg.Download)

	outputDir, err := downloaderService.OutputDir()
	if err != nil {
		logger.Fatalf("Failed to resolve output directory: %v", err)
	}
	logger.Infof("Downloads are written to %s", outputDir)

	// Initialize handlers
	videoHandler := handlers.NewVideoHandler(resolver, downloaderService)
	fileHandler := handlers.NewFileHandler(downloaderService, cfg.Download.ContentType)
	healthHandler := handlers.NewHealthHandler(downloaderService)

	// Initialize router
	r := router.NewRouter(ctx, cfg, videoHandler, fileHandler, healthHandler)

	// Start server
	go func() {
		logger.Infof("Starting server on %s", cfg.Addr())
		if err := r.Start(); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Failed to shut down server: %v", err)
	}
	stop()

	logger.Info("Server shutdown complete")
}
