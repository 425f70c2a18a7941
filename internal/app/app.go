package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ebartos/pipeliner/internal/config"
	"github.com/ebartos/pipeliner/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	pipeline *config.Pipeline
}

// NewApp is the constructor for the main application. The script goes to
// outW (unless an output path is configured); logs go to errW so they never
// mix with the generated script. A failure to load the pipeline definition
// is a fatal startup error and panics; the caller recovers it into a clean
// exit.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW).With("run_id", uuid.NewString())
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	pipeline, err := loader.Load(ctx, cfg.PipelinePath)
	if err != nil {
		panic(fmt.Errorf("failed to load pipeline definition: %w", err))
	}
	logger.Debug("Pipeline definition loaded into unified model.")

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		pipeline: pipeline,
	}
}
