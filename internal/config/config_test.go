package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denisAlshanov/vidgrab/internal/utils"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST", "DOWNLOAD_DIR", "DOWNLOAD_CHUNK_SIZE",
		"DOWNLOAD_CONTENT_TYPE", "YOUTUBE_RESPONSE_HEADER_TIMEOUT",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Download.OutputDir != "downloads" {
		t.Errorf("Expected OutputDir 'downloads', got '%s'", cfg.Download.OutputDir)
	}
	if cfg.Download.ContentType != "video/mp4" {
		t.Errorf("Expected ContentType 'video/mp4', got '%s'", cfg.Download.ContentType)
	}
	if cfg.Download.ChunkSize != 1024*1024 {
		t.Errorf("Expected ChunkSize 1048576, got %d", cfg.Download.ChunkSize)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Expected addr '0.0.0.0:8080', got '%s'", cfg.Addr())
	}
	if cfg.API.RateLimitWindow != time.Minute {
		t.Errorf("Expected rate limit window 1m, got %s", cfg.API.RateLimitWindow)
	}
	if cfg.Log.File != "" {
		t.Errorf("Expected no log file, got '%s'", cfg.Log.File)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.Log.Level)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DOWNLOAD_DIR", "/srv/videos")
	t.Setenv("DOWNLOAD_CHUNK_SIZE", "4096")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Download.OutputDir != "/srv/videos" {
		t.Errorf("Expected OutputDir '/srv/videos', got '%s'", cfg.Download.OutputDir)
	}
	if cfg.Download.ChunkSize != 4096 {
		t.Errorf("Expected ChunkSize 4096, got %d", cfg.Download.ChunkSize)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Expected port '9000', got '%s'", cfg.Server.Port)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Negative chunk size", key: "DOWNLOAD_CHUNK_SIZE", value: "-1"},
		{name: "Bad header timeout", key: "YOUTUBE_RESPONSE_HEADER_TIMEOUT", value: "soon"},
		{name: "Bad rate limit window", key: "RATE_LIMIT_WINDOW", value: "1 minute"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("Expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	for _, key := range []string{"LOG_LEVEL", "SERVER_PORT"} {
		// Setenv registers the restore; godotenv only fills unset keys.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSERVER_PORT=9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Expected port '9999', got '%s'", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Expected log level 'debug', got '%s'", cfg.Log.Level)
	}

	original := utils.GetLogger().GetLevel()
	t.Cleanup(func() { utils.GetLogger().SetLevel(original) })

	if err := utils.ConfigureLogger(cfg.Log.Level); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := utils.GetLogger().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("Expected logger at debug, got %s", got)
	}
}
