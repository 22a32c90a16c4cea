// Package config loads application settings from the environment once at
// startup. Values are treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database
	DatabaseURL string

	// Task queue
	RedisAddr string

	// LLM
	AnthropicAPIKey      string
	AnthropicModel       string
	LLMRequestsPerMinute int

	// Image generation
	GoogleAPIKey string

	// Transcription
	WhisperBin   string
	WhisperModel string

	// Audio fetching
	AudioDir      string
	MaxAudioBytes int64

	// Analysis
	ChunkSize int

	// Scheduler
	RefreshIntervalHours int
}

// Load reads the configuration from environment variables. DATABASE_URL is
// required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:       getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		WhisperBin:           getEnv("WHISPER_BIN", "whisper-cli"),
		WhisperModel:         getEnv("WHISPER_MODEL", "models/ggml-base.bin"),
		AudioDir:             getEnv("AUDIO_DIR", os.TempDir()),
		MaxAudioBytes:        getEnvInt64("MAX_AUDIO_BYTES", 500*1024*1024),
		ChunkSize:            getEnvInt("CHUNK_SIZE", 80000),
		LLMRequestsPerMinute: getEnvInt("LLM_REQUESTS_PER_MINUTE", 30),
		RefreshIntervalHours: getEnvInt("REFRESH_INTERVAL_HOURS", 4),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
