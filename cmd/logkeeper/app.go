package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/journal"
	"mercator-hq/logkeeper/pkg/retention"
	"mercator-hq/logkeeper/pkg/rolling"
	"mercator-hq/logkeeper/pkg/telemetry/metrics"
	"mercator-hq/logkeeper/pkg/telemetry/tracing"
)

// app is the managed log with everything attached to it.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	writer   *rolling.Writer
	retainer *retention.Retainer
	journal  *journal.SQLiteJournal
	metrics  *metrics.Collector
	tracer   *tracing.Tracer

	mu        sync.Mutex
	sweepErrs []error
}

// newApp wires the rolling writer, its retainer and the optional journal,
// metrics and tracing. Nothing is swept until activate.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	tracer, err := tracing.New(&tracing.Config{
		Enabled:        cfg.Telemetry.Tracing.Enabled,
		Endpoint:       cfg.Telemetry.Tracing.Endpoint,
		Insecure:       cfg.Telemetry.Tracing.Insecure,
		ServiceName:    cfg.Telemetry.Tracing.ServiceName,
		ServiceVersion: Version,
		SampleRatio:    cfg.Telemetry.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracer = tracer

	opts := []retention.Option{
		retention.WithLogger(logger.With("component", "retention")),
		retention.WithTracer(tracer.Tracer()),
		retention.WithErrorHandler(a.recordSweepError),
	}

	if cfg.Telemetry.Metrics.Enabled {
		a.metrics = metrics.NewCollector(&metrics.Config{
			Enabled:   true,
			Namespace: cfg.Telemetry.Metrics.Namespace,
		}, nil)
		opts = append(opts, retention.WithMetrics(a.metrics))
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(&journal.Config{
			Driver:      cfg.Journal.Driver,
			Path:        cfg.Journal.Path,
			WALMode:     true,
			BusyTimeout: 5 * time.Second,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		a.journal = j
		opts = append(opts, retention.WithJournal(j))
	}

	w, err := rolling.New(rolling.Config{
		Filename:    cfg.Log.File,
		DatePattern: cfg.Log.DatePattern,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		Compress:    cfg.Log.Compress,
		LocalTime:   cfg.Log.LocalTime,
	}, rolling.WithLogger(logger.With("component", "rolling")))
	if err != nil {
		a.close()
		return nil, err
	}
	a.writer = w

	r, err := retention.New(w, cfg.RetainerConfig(), opts...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.retainer = r

	return a, nil
}

// activate opens the writer, which activates the retainer and runs the
// initial sweep.
func (a *app) activate(ctx context.Context) error {
	a.writer.SetHooks(a.retainer)
	return a.writer.Open(ctx)
}

func (a *app) recordSweepError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sweepErrs = append(a.sweepErrs, err)
}

// sweepErr joins the failures reported by sweeps so far.
func (a *app) sweepErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return errors.Join(a.sweepErrs...)
}

// close releases everything newApp opened. It flushes traces with its own
// deadline so it still works after the command's context is cancelled.
func (a *app) close() {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.logger.Warn("failed to close log file", "error", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("failed to close journal", "error", err)
		}
	}
	if a.tracer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("failed to flush traces", "error", err)
		}
	}
}
