package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor sweeps a Retainer on a cron schedule. It exists for logs that can
// go quiet for long stretches: the write path alone never sweeps an idle log.
type Janitor struct {
	retainer *Retainer
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewJanitor creates a janitor for r. An empty schedule disables it.
func NewJanitor(r *Retainer, schedule string) *Janitor {
	return &Janitor{
		retainer: r,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "retention.janitor"),
	}
}

// Start schedules sweeps using a standard five-field cron expression
// ("*/5 * * * *" for every five minutes). It stops when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.schedule == "" {
		j.logger.Info("janitor schedule not configured, skipping")
		return nil
	}
	if j.running {
		return fmt.Errorf("janitor already running")
	}

	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", j.schedule, err)
	}

	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.run(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule janitor: %w", err)
	}

	j.cron.Start()
	j.running = true

	j.logger.Info("janitor started",
		"schedule", j.schedule,
		"file", j.retainer.target.Filename(),
	)

	go func() {
		<-ctx.Done()
		j.Stop()
	}()

	return nil
}

func (j *Janitor) run(ctx context.Context) {
	result, err := j.retainer.sweepWithTrigger(ctx, TriggerJanitor)
	if err != nil {
		// Sweep failures were already reported by the retainer.
		j.logger.Debug("janitor sweep finished with errors", "error", err)
		return
	}
	j.logger.Debug("janitor sweep finished", "deleted_count", len(result.Deleted))
}

// Stop stops the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		<-j.cron.Stop().Done()
		j.running = false
		j.logger.Info("janitor stopped")
	}
}

// IsRunning reports whether the schedule is active.
func (j *Janitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// NextRun returns the next scheduled sweep, or nil when not running.
func (j *Janitor) NextRun() *time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := j.cron.Entries()
	if !j.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
