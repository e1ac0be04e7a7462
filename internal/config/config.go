package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Download DownloadConfig
	YouTube  YouTubeConfig
	API      APIConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DownloadConfig struct {
	// OutputDir is resolved against the working directory when relative.
	OutputDir   string
	ChunkSize   int
	ContentType string
}

type YouTubeConfig struct {
	ResponseHeaderTimeout time.Duration
}

type APIConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type LogConfig struct {
	Level string
	// File receives logs from the terminal UI; empty discards them.
	File string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Download configuration
	cfg.Download.OutputDir = getEnv("DOWNLOAD_DIR", "downloads")
	cfg.Download.ChunkSize = getEnvInt("DOWNLOAD_CHUNK_SIZE", 1024*1024)
	if cfg.Download.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid DOWNLOAD_CHUNK_SIZE: %d", cfg.Download.ChunkSize)
	}
	cfg.Download.ContentType = getEnv("DOWNLOAD_CONTENT_TYPE", "video/mp4")

	// YouTube client configuration
	headerTimeout, err := time.ParseDuration(getEnv("YOUTUBE_RESPONSE_HEADER_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid YOUTUBE_RESPONSE_HEADER_TIMEOUT: %w", err)
	}
	cfg.YouTube.ResponseHeaderTimeout = headerTimeout

	// API configuration
	cfg.API.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", 30)
	rateLimitWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.API.RateLimitWindow = rateLimitWindow

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.File = os.Getenv("LOG_FILE")

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
