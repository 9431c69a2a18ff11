package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/logkeeper/pkg/telemetry/logging"
	"mercator-hq/logkeeper/pkg/telemetry/metrics"
	"mercator-hq/logkeeper/pkg/telemetry/tracing"
)

// Mode selects how the retention window is anchored.
type Mode string

const (
	// ModeCalendar anchors the window to the log's date pattern grid.
	ModeCalendar Mode = "calendar"
	// ModeTrailing measures the window back from the current moment.
	ModeTrailing Mode = "trailing"
)

// Sweep triggers, used in logs, metrics and the journal.
const (
	TriggerActivation = "activation"
	TriggerWrite      = "write"
	TriggerManual     = "manual"
	TriggerJanitor    = "janitor"
)

// ParseMode parses a mode name. Empty selects ModeTrailing.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeTrailing, nil
	case ModeCalendar, ModeTrailing:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown retention mode %q (want %q or %q)", s, ModeCalendar, ModeTrailing)
	}
}

// Config configures a Retainer.
type Config struct {
	// Window is how much history to keep, in any form ParseWindow accepts.
	// Empty means DefaultWindow.
	Window string

	// Mode selects calendar or trailing anchoring. Empty means trailing.
	Mode Mode
}

// Journal persists a record of every sweep.
type Journal interface {
	RecordSweep(ctx context.Context, rec *SweepRecord) error
}

// SweepRecord is what a Journal stores for one sweep.
type SweepRecord struct {
	ID        string
	Trigger   string
	Mode      Mode
	Window    time.Duration
	StartedAt time.Time
	Duration  time.Duration
	Cutoff    time.Time
	Deleted   []string
	Failed    []string
	Error     string
}

// Option customizes a Retainer.
type Option func(*Retainer)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Retainer) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retainer) { r.logger = logger }
}

// WithErrorHandler receives every sweep failure. Failures never reach the
// write path.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Retainer) { r.onError = fn }
}

// WithMetrics records sweep metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Retainer) { r.metrics = c }
}

// WithJournal records every sweep.
func WithJournal(j Journal) Option {
	return func(r *Retainer) { r.journal = j }
}

// WithTracer sets the tracer used for sweep spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Retainer) { r.tracer = t }
}

// Retainer deletes a rolling log's expired files. It is driven by the
// writer's hooks: Activate once at open, BeforeWrite before every write.
// There is no timer, so if nothing is written nothing is swept.
type Retainer struct {
	target  Target
	now     func() time.Time
	logger  *slog.Logger
	onError func(error)
	metrics *metrics.Collector
	journal Journal
	tracer  trace.Tracer

	mu          sync.Mutex
	cfg         Config
	active      bool
	window      time.Duration
	anchor      Anchor
	granularity Granularity
	scheduler   *Scheduler
	sweeper     *Sweeper
	last        *SweepResult
}

// New creates a Retainer for target. Nothing is parsed or swept until
// Activate is called.
func New(target Target, cfg Config, opts ...Option) (*Retainer, error) {
	if target == nil {
		return nil, fmt.Errorf("retention target is nil")
	}
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	r := &Retainer{
		target: target,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default().With("component", "retention"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracing.InstrumentationName)
	}
	return r, nil
}

// Activate parses the window, resolves the check granularity, runs the
// initial sweep and sets the first deadline.
//
// Configuration problems are returned. Filesystem failures during the
// initial sweep are reported through the error handler instead.
func (r *Retainer) Activate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activate(ctx, r.cfg)
}

// Reconfigure replaces the configuration and re-activates. On error the
// previous configuration stays in effect.
func (r *Retainer) Reconfigure(ctx context.Context, cfg Config) error {
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return err
	}
	cfg.Mode = mode

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activate(ctx, cfg)
}

func (r *Retainer) activate(ctx context.Context, cfg Config) error {
	res, err := resolve(cfg, r.target.DatePattern())
	if err != nil {
		return err
	}

	r.cfg = cfg
	r.window = res.window
	r.anchor = res.anchor
	r.granularity = res.granularity
	r.scheduler = NewScheduler(res.anchor, res.granularity.Interval())
	r.sweeper = NewSweeper(r.target, res.anchor, res.window)
	r.active = true

	r.logger.Info("retention activated",
		"file", r.target.Filename(),
		"mode", cfg.Mode,
		"window", FormatWindow(res.window),
		"granularity", res.granularity.String(),
		"check_interval", res.granularity.Interval(),
	)

	r.sweep(ctx, r.now(), TriggerActivation)
	return nil
}

// Validate checks cfg against a writer that rolls on pattern without
// touching the filesystem. It returns the errors Activate would return.
func Validate(cfg Config, pattern string) error {
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return err
	}
	cfg.Mode = mode
	_, err = resolve(cfg, pattern)
	return err
}

// Preview reports what a sweep of target under cfg would delete at now,
// without activating a Retainer or deleting anything.
func Preview(ctx context.Context, target Target, cfg Config, now time.Time) (*SweepResult, error) {
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode
	res, err := resolve(cfg, target.DatePattern())
	if err != nil {
		return nil, err
	}
	return NewSweeper(target, res.anchor, res.window).DryRun(ctx, now)
}

type resolution struct {
	window      time.Duration
	anchor      Anchor
	granularity Granularity
}

func resolve(cfg Config, pattern string) (*resolution, error) {
	window := DefaultWindow
	if cfg.Window != "" {
		w, err := ParseWindow(cfg.Window)
		if err != nil {
			return nil, err
		}
		window = w
	}

	var anchor Anchor
	switch cfg.Mode {
	case ModeCalendar:
		anchor = NewCalendarAnchor(pattern)
	default:
		anchor = NewTrailingAnchor(window)
	}

	g, err := anchor.Granularity()
	if err != nil {
		return nil, err
	}

	if cfg.Mode == ModeTrailing && pattern != "" {
		if err := checkRollPeriod(pattern, window); err != nil {
			return nil, err
		}
	}

	return &resolution{window: window, anchor: anchor, granularity: g}, nil
}

// checkRollPeriod rejects a trailing window shorter than the period the log
// rolls on; the active file would outlive its own window.
func checkRollPeriod(pattern string, window time.Duration) error {
	roll, err := NewCalendarAnchor(pattern).Granularity()
	if err != nil {
		return err
	}
	if roll.Interval() > window {
		return &CompatibilityError{Pattern: pattern, RollPeriod: roll.Interval(), Window: window}
	}
	return nil
}

// BeforeWrite sweeps if the deadline has passed. It never fails and never
// panics; errors go to the error handler.
func (r *Retainer) BeforeWrite(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			r.report(ctx, fmt.Errorf("retention sweep panicked: %v", p))
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	now := r.now()
	if !r.scheduler.Due(now) {
		return
	}
	r.sweep(ctx, now, TriggerWrite)
}

// Sweep runs a sweep immediately, regardless of the deadline, and advances
// the deadline.
func (r *Retainer) Sweep(ctx context.Context) (*SweepResult, error) {
	return r.sweepWithTrigger(ctx, TriggerManual)
}

func (r *Retainer) sweepWithTrigger(ctx context.Context, trigger string) (*SweepResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return nil, ErrNotActivated
	}
	return r.sweep(ctx, r.now(), trigger)
}

// DryRun reports what a sweep would delete now.
func (r *Retainer) DryRun(ctx context.Context) (*SweepResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return nil, ErrNotActivated
	}
	return r.sweeper.DryRun(ctx, r.now())
}

// sweep must be called with r.mu held.
func (r *Retainer) sweep(ctx context.Context, now time.Time, trigger string) (*SweepResult, error) {
	id := uuid.NewString()
	ctx = logging.WithSweepID(ctx, id)
	ctx = logging.WithTrigger(ctx, trigger)
	ctx = logging.WithFile(ctx, r.target.Filename())
	ctx, span := r.tracer.Start(ctx, "retention.sweep",
		trace.WithAttributes(
			tracing.AttrSweepID.String(id),
			tracing.AttrTrigger.String(trigger),
			tracing.AttrMode.String(string(r.cfg.Mode)),
			tracing.AttrWindow.String(FormatWindow(r.window)),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := r.sweeper.Sweep(ctx, now)
	elapsed := time.Since(start)
	r.last = result
	next := r.scheduler.Advance(now)

	deleted, failed := 0, 0
	if result != nil {
		deleted, failed = len(result.Deleted), len(result.Failed)
	}
	span.SetAttributes(
		tracing.AttrDeleted.Int(deleted),
		tracing.AttrFailed.Int(failed),
	)
	if result != nil {
		span.SetAttributes(tracing.AttrCutoff.String(result.Cutoff.Format(time.RFC3339)))
	}
	tracing.SetStatus(span, err)

	if r.metrics != nil {
		r.metrics.RecordSweep(trigger, deleted, failed, err != nil, elapsed)
		r.metrics.SetSchedule(r.scheduler.Interval(), next)
	}

	r.record(ctx, id, trigger, now, elapsed, result, err)

	if err != nil {
		tracing.SetError(span, err)
		r.report(ctx, err)
		return result, err
	}

	if deleted > 0 {
		r.logger.InfoContext(ctx, "retention sweep completed",
			"deleted_count", deleted,
			"cutoff", result.Cutoff,
			"next_check", next,
		)
	} else {
		r.logger.DebugContext(ctx, "retention sweep completed, nothing expired",
			"next_check", next,
		)
	}
	return result, nil
}

func (r *Retainer) record(ctx context.Context, id, trigger string, now time.Time, elapsed time.Duration, result *SweepResult, sweepErr error) {
	if r.journal == nil {
		return
	}

	rec := &SweepRecord{
		ID:        id,
		Trigger:   trigger,
		Mode:      r.cfg.Mode,
		Window:    r.window,
		StartedAt: now,
		Duration:  elapsed,
	}
	if result != nil {
		rec.Cutoff = result.Cutoff
		rec.Deleted = result.Deleted
		for _, f := range result.Failed {
			rec.Failed = append(rec.Failed, f.Path)
		}
	}
	if sweepErr != nil {
		rec.Error = sweepErr.Error()
	}

	if err := r.journal.RecordSweep(ctx, rec); err != nil {
		r.logger.WarnContext(ctx, "failed to journal retention sweep", "error", err)
	}
}

func (r *Retainer) report(ctx context.Context, err error) {
	if logging.GetFile(ctx) == "" {
		ctx = logging.WithFile(ctx, r.target.Filename())
	}
	r.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
	if r.onError != nil {
		r.onError(err)
	}
}

// CheckInterval returns the computed check interval, or zero before
// activation.
func (r *Retainer) CheckInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduler == nil {
		return 0
	}
	return r.scheduler.Interval()
}

// NextCheck returns the next scheduled check, or the zero time before
// activation.
func (r *Retainer) NextCheck() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduler == nil {
		return time.Time{}
	}
	return r.scheduler.Next()
}

// Window returns the active retention window.
func (r *Retainer) Window() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window
}

// Granularity returns the active check granularity.
func (r *Retainer) Granularity() Granularity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.granularity
}

// LastSweep returns the result of the most recent sweep, or nil if none
// has run.
func (r *Retainer) LastSweep() *SweepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Mode returns the active anchoring mode.
func (r *Retainer) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.Mode
}
