// Package bootstrap provides dependency initialization for the AfroVids API.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/afrovids/afrovids-api/internal/config"
	"github.com/afrovids/afrovids-api/internal/mediastore"
	"github.com/afrovids/afrovids-api/internal/merge"
	"github.com/afrovids/afrovids-api/internal/pipeline"
	"github.com/afrovids/afrovids-api/internal/progress"
	"github.com/afrovids/afrovids-api/internal/render"
	"github.com/afrovids/afrovids-api/internal/script"
	"github.com/afrovids/afrovids-api/internal/server"
	"github.com/afrovids/afrovids-api/internal/speech"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Pipeline *pipeline.Service
	Hub      *progress.Hub

	pool *ants.Pool
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	scripts, err := script.NewHTTPClient(cfg.OpenAIAPIKey, script.WithModel(cfg.OpenAIModel))
	if err != nil {
		return nil, fmt.Errorf("create script client: %w", err)
	}

	synth, err := speech.NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.TempDir,
		speech.WithModelID(cfg.ElevenLabsModelID))
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	renderer, err := render.NewHTTPClient(cfg.LeonardoAPIKey)
	if err != nil {
		return nil, fmt.Errorf("create render client: %w", err)
	}
	poller := render.NewPoller(render.Policy{
		Interval:    cfg.RenderPollInterval,
		MaxAttempts: cfg.RenderPollMaxAttempts,
	}, logger)

	store, err := mediastore.NewS3Store(mediastore.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create media store: %w", err)
	}
	logger.Info("media store configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)

	merger := merge.NewFFmpegMerger("")

	hub := progress.NewHub(logger)

	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	svc := pipeline.NewService(
		scripts,
		synth,
		renderer,
		poller,
		store,
		merger,
		hub,
		logger,
		pipeline.WithTaskRunner(pool),
		pipeline.WithWorkDir(cfg.TempDir),
		pipeline.WithDefaultLanguage(cfg.DefaultLanguage),
	)

	return &Dependencies{
		Pipeline: svc,
		Hub:      hub,
		pool:     pool,
	}, nil
}

// ServerConfig builds the HTTP server configuration from the app config.
func ServerConfig(cfg *config.Config) server.Config {
	return server.Config{AllowedOrigins: cfg.AllowedOrigins}
}

// Close shuts down the worker pool, waiting briefly for running jobs.
func (d *Dependencies) Close() {
	if d.pool != nil {
		_ = d.pool.ReleaseTimeout(30 * time.Second)
	}
}
