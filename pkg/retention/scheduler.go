package retention

import "time"

// Scheduler tracks when the next retention sweep is due.
//
// It has no timer of its own. Callers ask Due on every write and call Advance
// after sweeping, so missed periods collapse into one sweep. Scheduler is not
// safe for concurrent use; Retainer serializes access.
type Scheduler struct {
	anchor   Anchor
	interval time.Duration
	next     time.Time
}

// NewScheduler creates a scheduler that checks every interval. The first
// deadline is the zero time, so the first Due call always reports true.
func NewScheduler(anchor Anchor, interval time.Duration) *Scheduler {
	return &Scheduler{
		anchor:   anchor,
		interval: interval,
	}
}

// Due reports whether now has reached the next deadline.
func (s *Scheduler) Due(now time.Time) bool {
	return !now.Before(s.next)
}

// Advance sets the deadline to one interval past the normalized now.
//
// A date pattern without a year or month normalizes into a different era;
// the deadline then falls back to now plus one interval so it still lies
// strictly after now.
func (s *Scheduler) Advance(now time.Time) time.Time {
	next := s.anchor.Normalize(now).Add(s.interval)
	if !next.After(now) {
		next = now.Add(s.interval)
	}
	s.next = next
	return next
}

// Next returns the current deadline.
func (s *Scheduler) Next() time.Time {
	return s.next
}

// Interval returns the check interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}
