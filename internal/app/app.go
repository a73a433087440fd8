package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/patchgrid/internal/config"
	"github.com/specialistvlad/patchgrid/internal/ctxlog"
	"github.com/specialistvlad/patchgrid/internal/patch"
	"github.com/specialistvlad/patchgrid/patches"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
	runner *patch.Runner
}

// NewApp is the constructor for the main application. It builds the
// application's own logger, loads the patch set and compiles every rule, so
// configuration mistakes surface before any file is touched.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var (
		model *config.Model
		err   error
	)
	if cfg.PatchPath == "" {
		logger.Debug("No patch path given, using the built-in patch set.")
		model, err = loader.LoadFS(ctx, patches.FS)
	} else {
		model, err = loader.Load(ctx, cfg.PatchPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patches: %w", err)
	}
	if len(model.Patches) == 0 {
		return nil, fmt.Errorf("no patches found in %s", describeSource(cfg.PatchPath))
	}
	logger.Debug("Patches loaded.", "count", len(model.Patches))

	runner, err := patch.NewRunner(model)
	if err != nil {
		return nil, fmt.Errorf("failed to compile patches: %w", err)
	}
	logger.Debug("All rules compiled.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		model:  model,
		runner: runner,
	}, nil
}

// Model returns the loaded patch model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

func describeSource(patchPath string) string {
	if patchPath == "" {
		return "the built-in patch set"
	}
	return patchPath
}
