package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/idilsaglam/recipes/internal/config"
	"github.com/idilsaglam/recipes/internal/form"
	"github.com/idilsaglam/recipes/internal/logging"
	"github.com/idilsaglam/recipes/internal/schema"
	"github.com/idilsaglam/recipes/internal/submit"
	"github.com/idilsaglam/recipes/internal/telemetry"
	"github.com/idilsaglam/recipes/internal/ui"
)

// app holds what every form-backed subcommand needs.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	schema *schema.Schema
	client *submit.Client

	closers []io.Closer
}

func setup(ctx context.Context, opt Options) (*app, error) {
	cfg, err := config.Load(opt.ConfigPath, opt.Flags)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	ui.SetTheme(cfg.Theme)

	log, logCloser, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	tel := telemetry.Options{Enabled: cfg.TraceEnabled, ServiceName: "recipes", Version: opt.Version}
	if cfg.TraceEnabled {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("trace file: %w", err)
		}
		tel.Writer = f
		a.closers = append(a.closers, f)
	}
	if err := telemetry.Init(ctx, tel); err != nil {
		a.close()
		return nil, err
	}

	a.schema, err = schema.Default()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("schema: %w", err)
	}
	a.client = submit.New(cfg.Endpoint,
		submit.WithLogger(log),
		submit.WithTracer(telemetry.Tracer("")),
	)
	log.Debug("recipes started", "endpoint", cfg.Endpoint, "config", cfg.File, "ordering", cfg.Ordering)
	return a, nil
}

func (a *app) newForm() *form.Form {
	return form.New(a.schema, form.WithOrdering(a.cfg.Ordering))
}

// close flushes spans before closing the trace file and the log.
func (a *app) close() {
	telemetry.Shutdown(context.Background())
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}
