package retention

import (
	"fmt"
	"time"
)

// Anchor decides how finely retention is tracked and how timestamps are
// bucketed before they are compared.
type Anchor interface {
	// Name identifies the anchor in logs and errors.
	Name() string

	// Granularity returns the unit at which checks must repeat.
	Granularity() (Granularity, error)

	// Normalize maps t to the start of its bucket.
	Normalize(t time.Time) time.Time
}

// referenceTime is only used to probe which fields a date pattern keeps.
// Every component is non-zero so a surviving field is detectable.
var referenceTime = time.Date(1999, time.January, 1, 1, 1, 1, 0, time.UTC)

// CalendarAnchor anchors retention to the grid of the log's date pattern.
// The pattern is authoritative: normalization keeps whatever the pattern
// encodes, nothing more and nothing less.
type CalendarAnchor struct {
	// Pattern is a Go reference layout such as "2006-01-02" or "2006010215".
	Pattern string
}

// NewCalendarAnchor creates a fixed-grid anchor for pattern.
func NewCalendarAnchor(pattern string) *CalendarAnchor {
	return &CalendarAnchor{Pattern: pattern}
}

// Name implements Anchor.
func (a *CalendarAnchor) Name() string { return "calendar" }

// Granularity formats the reference instant with the pattern, parses it
// back and returns the finest of second, minute and hour that survived. Day
// is the fallback.
func (a *CalendarAnchor) Granularity() (Granularity, error) {
	if a.Pattern == "" {
		return GranularityUnresolved, &GranularityError{Anchor: a.Name(), Detail: a.Pattern}
	}

	probe, err := time.Parse(a.Pattern, referenceTime.Format(a.Pattern))
	if err != nil {
		return GranularityUnresolved, &GranularityError{
			Anchor: a.Name(),
			Detail: a.Pattern,
			Cause:  fmt.Errorf("pattern does not parse back: %w", err),
		}
	}

	switch {
	case probe.Second() != 0:
		return GranularitySecond, nil
	case probe.Minute() != 0:
		return GranularityMinute, nil
	case probe.Hour() != 0:
		return GranularityHour, nil
	case probe.Day() != 0:
		return GranularityDay, nil
	default:
		return GranularityUnresolved, &GranularityError{Anchor: a.Name(), Detail: a.Pattern}
	}
}

// Normalize formats t with the pattern and parses it back in t's location.
// If that fails the timestamp is truncated to the pattern's granularity.
func (a *CalendarAnchor) Normalize(t time.Time) time.Time {
	n, err := time.ParseInLocation(a.Pattern, t.Format(a.Pattern), t.Location())
	if err == nil {
		return n
	}
	g, _ := a.Granularity()
	return g.Truncate(t)
}

// unresolvedClamp is subtracted from timestamps when a trailing window has no
// usable granularity. Activation rejects such windows, so only direct callers
// of TrailingAnchor.Normalize can observe it.
const unresolvedClamp = 5 * time.Second

// TrailingAnchor measures the window back from the current moment. Its
// granularity comes from the window itself: a five minute window is checked
// every minute, a five day window every day.
type TrailingAnchor struct {
	Window time.Duration
}

// NewTrailingAnchor creates a trailing anchor for window.
func NewTrailingAnchor(window time.Duration) *TrailingAnchor {
	return &TrailingAnchor{Window: window}
}

// Name implements Anchor.
func (a *TrailingAnchor) Name() string { return "trailing" }

// Granularity implements Anchor.
func (a *TrailingAnchor) Granularity() (Granularity, error) {
	g := GranularityOf(a.Window)
	if g == GranularityUnresolved {
		return g, &GranularityError{Anchor: a.Name(), Detail: FormatWindow(a.Window)}
	}
	return g, nil
}

// Normalize truncates t arithmetically to the window's granularity.
func (a *TrailingAnchor) Normalize(t time.Time) time.Time {
	g := GranularityOf(a.Window)
	if g == GranularityUnresolved {
		return t.Add(-unresolvedClamp)
	}
	return g.Truncate(t)
}
