package retention

import "time"

// Granularity is the time unit at which retention checks repeat.
type Granularity int

const (
	// GranularityUnresolved means no check interval could be established.
	GranularityUnresolved Granularity = iota
	GranularitySecond
	GranularityMinute
	GranularityHour
	GranularityDay
)

// String returns the lower-case unit name.
func (g Granularity) String() string {
	switch g {
	case GranularitySecond:
		return "second"
	case GranularityMinute:
		return "minute"
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	default:
		return "unresolved"
	}
}

// Interval returns exactly one unit of g, or zero when unresolved.
func (g Granularity) Interval() time.Duration {
	switch g {
	case GranularitySecond:
		return time.Second
	case GranularityMinute:
		return time.Minute
	case GranularityHour:
		return time.Hour
	case GranularityDay:
		return Day
	default:
		return 0
	}
}

// Truncate zeroes every component of t finer than g, in t's own location.
// Second and unresolved granularity return t unchanged.
func (g Granularity) Truncate(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, _ := t.Clock()
	switch g {
	case GranularityMinute:
		return time.Date(y, mo, d, h, mi, 0, 0, t.Location())
	case GranularityHour:
		return time.Date(y, mo, d, h, 0, 0, 0, t.Location())
	case GranularityDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// GranularityOf inspects the second, minute, hour and day components of d in
// that order and returns the unit of the first non-zero one. A window shorter
// than one second is unresolved.
func GranularityOf(d time.Duration) Granularity {
	if d < 0 {
		return GranularityUnresolved
	}
	switch {
	case (d/time.Second)%60 != 0:
		return GranularitySecond
	case (d/time.Minute)%60 != 0:
		return GranularityMinute
	case (d/time.Hour)%24 != 0:
		return GranularityHour
	case d/Day != 0:
		return GranularityDay
	default:
		return GranularityUnresolved
	}
}
