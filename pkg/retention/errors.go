package retention

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidWindow is wrapped by every FormatError.
	ErrInvalidWindow = errors.New("invalid retention window")

	// ErrGranularityUnresolved is returned when neither the date pattern nor
	// the retention window yields a check interval.
	ErrGranularityUnresolved = errors.New("retention check granularity could not be resolved")

	// ErrIncompatibleRollPeriod is returned in trailing mode when the log rolls
	// less often than the retention window is long.
	ErrIncompatibleRollPeriod = errors.New("roll period is longer than the retention window")

	// ErrNotActivated is returned by operations that need Activate to have run.
	ErrNotActivated = errors.New("retainer not activated")
)

// FormatError reports a retention window string that could not be parsed.
type FormatError struct {
	Input  string // Raw configuration value
	Reason string // Why parsing failed
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid retention window %q: %s", e.Input, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidWindow.
func (e *FormatError) Unwrap() error {
	return ErrInvalidWindow
}

// NewFormatError creates a new FormatError.
func NewFormatError(input, reason string) *FormatError {
	return &FormatError{
		Input:  input,
		Reason: reason,
	}
}

// GranularityError describes which anchor failed to produce a granularity.
type GranularityError struct {
	Anchor string // Anchor name ("calendar", "trailing")
	Detail string // Pattern or window that was inspected
	Cause  error  // Underlying error, if any
}

// Error implements the error interface.
func (e *GranularityError) Error() string {
	msg := fmt.Sprintf("%v [anchor=%s, input=%q]", ErrGranularityUnresolved, e.Anchor, e.Detail)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns both the sentinel and the cause.
func (e *GranularityError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrGranularityUnresolved, e.Cause}
	}
	return []error{ErrGranularityUnresolved}
}

// CompatibilityError reports a date pattern that rolls less often than the
// trailing window is long.
type CompatibilityError struct {
	Pattern    string
	RollPeriod time.Duration
	Window     time.Duration
}

// Error implements the error interface.
func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("%v [pattern=%q, roll_period=%s, window=%s]",
		ErrIncompatibleRollPeriod, e.Pattern, e.RollPeriod, FormatWindow(e.Window))
}

// Unwrap lets errors.Is match ErrIncompatibleRollPeriod.
func (e *CompatibilityError) Unwrap() error {
	return ErrIncompatibleRollPeriod
}

// FileError is a failure to inspect or delete one candidate file.
type FileError struct {
	Path      string
	Operation string // "stat" or "delete"
	Cause     error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *FileError) Unwrap() error {
	return e.Cause
}

// SweepError is returned when a sweep could not list its directory or when one
// or more candidates failed. Files that failed do not stop the others.
type SweepError struct {
	Dir   string
	Cause error        // Directory-level failure; nil when only files failed
	Files []*FileError // Per-file failures
}

// Error implements the error interface.
func (e *SweepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("retention sweep of %s failed: %v", e.Dir, e.Cause)
	}
	parts := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("retention sweep of %s: %d file(s) failed: %s",
		e.Dir, len(e.Files), strings.Join(parts, "; "))
}

// Unwrap exposes the directory cause and every file error to errors.Is/As.
func (e *SweepError) Unwrap() []error {
	errs := make([]error, 0, len(e.Files)+1)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	for _, f := range e.Files {
		errs = append(errs, f)
	}
	return errs
}
