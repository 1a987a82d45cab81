// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrOpenAIAPIKeyRequired is returned when OPENAI_API_KEY is not set.
	ErrOpenAIAPIKeyRequired = errors.New("config: OPENAI_API_KEY is required")
	// ErrElevenLabsAPIKeyRequired is returned when ELEVENLABS_API_KEY is not set.
	ErrElevenLabsAPIKeyRequired = errors.New("config: ELEVENLABS_API_KEY is required")
	// ErrLeonardoAPIKeyRequired is returned when LEONARDO_API_KEY is not set.
	ErrLeonardoAPIKeyRequired = errors.New("config: LEONARDO_API_KEY is required")
	// ErrS3BucketRequired is returned when S3_BUCKET is not set.
	ErrS3BucketRequired = errors.New("config: S3_BUCKET is required")
	// ErrS3RegionRequired is returned when S3_REGION is not set.
	ErrS3RegionRequired = errors.New("config: S3_REGION is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port           int      `env:"PORT, default=8080" json:"port"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=*" json:"allowed_origins"`

	// Script generation settings
	OpenAIAPIKey string `env:"OPENAI_API_KEY, required" json:"-"` // Masked in JSON
	OpenAIModel  string `env:"OPENAI_MODEL, default=gpt-4o-mini" json:"openai_model"`

	// Speech synthesis settings
	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY, required" json:"-"` // Masked in JSON
	ElevenLabsModelID string `env:"ELEVENLABS_MODEL_ID, default=eleven_multilingual_v2" json:"elevenlabs_model_id"`

	// Video rendering settings
	LeonardoAPIKey        string        `env:"LEONARDO_API_KEY, required" json:"-"` // Masked in JSON
	RenderPollInterval    time.Duration `env:"RENDER_POLL_INTERVAL, default=10s" json:"render_poll_interval"`
	RenderPollMaxAttempts int           `env:"RENDER_POLL_MAX_ATTEMPTS, default=20" json:"render_poll_max_attempts"`

	// Media store settings
	S3Bucket           string `env:"S3_BUCKET, required" json:"s3_bucket"`
	S3Region           string `env:"S3_REGION, required" json:"s3_region"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Pipeline settings
	TempDir         string `env:"TEMP_DIR, default=/tmp/afrovids" json:"temp_dir"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE, default=en" json:"default_language"`
	WorkerPoolSize  int    `env:"WORKER_POOL_SIZE, default=16" json:"worker_pool_size"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		switch {
		case strings.Contains(err.Error(), "OPENAI_API_KEY"):
			return nil, ErrOpenAIAPIKeyRequired
		case strings.Contains(err.Error(), "ELEVENLABS_API_KEY"):
			return nil, ErrElevenLabsAPIKeyRequired
		case strings.Contains(err.Error(), "LEONARDO_API_KEY"):
			return nil, ErrLeonardoAPIKeyRequired
		case strings.Contains(err.Error(), "S3_BUCKET"):
			return nil, ErrS3BucketRequired
		case strings.Contains(err.Error(), "S3_REGION"):
			return nil, ErrS3RegionRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return ErrOpenAIAPIKeyRequired
	}
	if c.ElevenLabsAPIKey == "" {
		return ErrElevenLabsAPIKeyRequired
	}
	if c.LeonardoAPIKey == "" {
		return ErrLeonardoAPIKeyRequired
	}
	if c.S3Bucket == "" {
		return ErrS3BucketRequired
	}
	if c.S3Region == "" {
		return ErrS3RegionRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, OpenAIModel: %s, ElevenLabsModelID: %s, RenderPollInterval: %s, RenderPollMaxAttempts: %d, S3Bucket: %s, S3Region: %s, TempDir: %s, DefaultLanguage: %s, WorkerPoolSize: %d, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.OpenAIModel,
		c.ElevenLabsModelID,
		c.RenderPollInterval,
		c.RenderPollMaxAttempts,
		c.S3Bucket,
		c.S3Region,
		c.TempDir,
		c.DefaultLanguage,
		c.WorkerPoolSize,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
