package rolling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config contains configuration for a rolling Writer.
type Config struct {
	// Filename is the active log file. Rolled files are written next to it.
	Filename string

	// DatePattern is a Go reference layout. The file rolls whenever the
	// current time formats differently ("2006-01-02" rolls daily). Empty
	// disables date rolling.
	DatePattern string

	// MaxSizeMB rolls the file once it reaches this size. Zero uses
	// lumberjack's default of 100 MB.
	MaxSizeMB int

	// Compress gzips rolled files.
	Compress bool

	// LocalTime names rolled files using local time instead of UTC.
	LocalTime bool
}

// Hooks is implemented by components that run inline with the writer.
type Hooks interface {
	// Activate runs once when the writer is opened.
	Activate(ctx context.Context) error

	// BeforeWrite runs before every write, under the writer's lock.
	BeforeWrite(ctx context.Context)
}

// AccessFunc enters a filesystem access context (for example, switching
// credentials) and returns the func that leaves it.
type AccessFunc func() (release func(), err error)

// Option customizes a Writer.
type Option func(*Writer)

// WithClock overrides the clock used for date rolling.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithAccess installs the access context used around retention sweeps.
func WithAccess(fn AccessFunc) Option {
	return func(w *Writer) { w.access = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) { w.logger = logger }
}

// Writer is an io.WriteCloser that rolls on size (via lumberjack) and on
// date pattern changes. It serializes writes, so hooks never run
// concurrently with each other.
type Writer struct {
	cfg    Config
	lj     *lumberjack.Logger
	now    func() time.Time
	access AccessFunc
	logger *slog.Logger

	mu     sync.Mutex
	hooks  Hooks
	period string
	opened bool
}

// New creates a Writer. Nothing is opened until Open or the first Write.
func New(cfg Config, opts ...Option) (*Writer, error) {
	if cfg.Filename == "" {
		return nil, errors.New("rolling: filename is required")
	}

	w := &Writer{
		cfg: cfg,
		lj: &lumberjack.Logger{
			Filename:  cfg.Filename,
			MaxSize:   cfg.MaxSizeMB,
			Compress:  cfg.Compress,
			LocalTime: cfg.LocalTime,
		},
		now:    time.Now,
		logger: slog.Default().With("component", "rolling"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// SetHooks installs h. It must be called before Open.
func (w *Writer) SetHooks(h Hooks) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks = h
}

// Open creates the log directory and runs the Activate hook. Calling Open
// again is a no-op.
func (w *Writer) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open(ctx)
}

func (w *Writer) open(ctx context.Context) error {
	if w.opened {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.cfg.Filename), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// An existing file belongs to the period it was last written in, so a
	// restart on a later day still rolls it.
	if w.cfg.DatePattern != "" {
		w.period = w.now().Format(w.cfg.DatePattern)
		if info, err := os.Stat(w.cfg.Filename); err == nil {
			w.period = info.ModTime().Format(w.cfg.DatePattern)
		}
	}

	if w.hooks != nil {
		if err := w.hooks.Activate(ctx); err != nil {
			return err
		}
	}

	w.opened = true
	return nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx := context.Background()
	if err := w.open(ctx); err != nil {
		return 0, err
	}

	if w.cfg.DatePattern != "" {
		if period := w.now().Format(w.cfg.DatePattern); period != w.period {
			if err := w.lj.Rotate(); err != nil {
				w.logger.Warn("date roll failed", "file", w.cfg.Filename, "error", err)
			}
			w.period = period
		}
	}

	if w.hooks != nil {
		w.hooks.BeforeWrite(ctx)
	}

	return w.lj.Write(p)
}

// Rotate rolls the file immediately.
func (w *Writer) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cfg.DatePattern != "" {
		w.period = w.now().Format(w.cfg.DatePattern)
	}
	return w.lj.Rotate()
}

// Close closes the active file.
func (w *Writer) Close() error {
	return w.lj.Close()
}

// Filename returns the active log file path.
func (w *Writer) Filename() string {
	return w.cfg.Filename
}

// DatePattern returns the layout the writer rolls on.
func (w *Writer) DatePattern() string {
	return w.cfg.DatePattern
}

// DeleteFile removes path. Deleting the active file closes it first; the
// next write starts a fresh one.
//
// DeleteFile does not take the writer's lock: it runs both from inside
// Write (through BeforeWrite) and from out-of-band sweeps. lumberjack
// serializes Close against Write itself.
func (w *Writer) DeleteFile(path string) error {
	if filepath.Clean(path) == filepath.Clean(w.cfg.Filename) {
		if err := w.lj.Close(); err != nil {
			return fmt.Errorf("close active file: %w", err)
		}
	}
	return os.Remove(path)
}

// AcquireAccess enters the configured access context, if any.
func (w *Writer) AcquireAccess() (func(), error) {
	if w.access == nil {
		return func() {}, nil
	}
	return w.access()
}
