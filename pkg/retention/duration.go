package retention

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day is the length of one retention day. Windows are plain durations, so a
// day is always 24 hours regardless of daylight saving transitions.
const Day = 24 * time.Hour

// DefaultWindow is used when no window is configured. It keeps roughly 100
// years of history, which in practice disables deletion.
const DefaultWindow = 36500 * Day

// maxWindowDays is the largest whole-day count representable as a time.Duration.
const maxWindowDays = int64(math.MaxInt64 / int64(Day))

var (
	dayMarkerPattern  = regexp.MustCompile(`^(\d+)\s*(?:d|day|days)$`)
	bareDaysPattern   = regexp.MustCompile(`^\d+$`)
	structuredPattern = regexp.MustCompile(`^(-)?(?:(\d+)\.)?(\d{1,2}):(\d{1,2})(?::(\d{1,2})(?:\.(\d{1,9}))?)?$`)
)

// ParseWindow parses a retention window.
//
// Accepted forms, after trimming and lower-casing:
//
//	"7d", "7 days"        day marker
//	"7"                   bare day count
//	"1.12:00:00"          days.hours:minutes:seconds[.fraction]
//	"00:05:00", "06:30"   hours:minutes[:seconds[.fraction]]
//	"90m", "36h"          Go duration literal
//
// Empty, negative and out-of-range values fail with a *FormatError.
func ParseWindow(s string) (time.Duration, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return 0, NewFormatError(s, "empty value")
	}

	if m := dayMarkerPattern.FindStringSubmatch(in); m != nil {
		return parseDays(s, m[1])
	}
	if bareDaysPattern.MatchString(in) {
		return parseDays(s, in)
	}
	if m := structuredPattern.FindStringSubmatch(in); m != nil {
		return parseStructured(s, m)
	}

	d, err := time.ParseDuration(in)
	if err != nil {
		return 0, NewFormatError(s, "expected <N>d, D.HH:MM:SS or a duration such as 90m")
	}
	if d < 0 {
		return 0, NewFormatError(s, "window must not be negative")
	}
	return d, nil
}

func parseDays(raw, digits string) (time.Duration, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > maxWindowDays {
		return 0, NewFormatError(raw, fmt.Sprintf("day count exceeds %d", maxWindowDays))
	}
	return time.Duration(n) * Day, nil
}

func parseStructured(raw string, m []string) (time.Duration, error) {
	if m[1] == "-" {
		return 0, NewFormatError(raw, "window must not be negative")
	}

	var days int64
	if m[2] != "" {
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || n > maxWindowDays {
			return 0, NewFormatError(raw, fmt.Sprintf("day count exceeds %d", maxWindowDays))
		}
		days = n
	}

	hours, _ := strconv.Atoi(m[3])
	minutes, _ := strconv.Atoi(m[4])
	seconds := 0
	if m[5] != "" {
		seconds, _ = strconv.Atoi(m[5])
	}
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, NewFormatError(raw, "hours must be 0-23, minutes and seconds 0-59")
	}

	var nanos int64
	if m[6] != "" {
		frac := m[6] + strings.Repeat("0", 9-len(m[6]))
		nanos, _ = strconv.ParseInt(frac, 10, 64)
	}

	rest := int64(hours)*int64(time.Hour) +
		int64(minutes)*int64(time.Minute) +
		int64(seconds)*int64(time.Second) +
		nanos
	if days*int64(Day) > math.MaxInt64-rest {
		return 0, NewFormatError(raw, "window overflows")
	}
	return time.Duration(days*int64(Day) + rest), nil
}

// FormatWindow renders d in the canonical D.HH:MM:SS[.fraction] form accepted
// by ParseWindow. The day part is omitted when zero.
func FormatWindow(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		if d == math.MinInt64 {
			d = math.MaxInt64
		} else {
			d = -d
		}
	}

	days := d / Day
	d -= days * Day
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	nanos := d - seconds*time.Second

	var b strings.Builder
	b.WriteString(sign)
	if days > 0 {
		fmt.Fprintf(&b, "%d.", days)
	}
	fmt.Fprintf(&b, "%02d:%02d:%02d", hours, minutes, seconds)
	if nanos > 0 {
		b.WriteString(strings.TrimRight(fmt.Sprintf(".%09d", nanos), "0"))
	}
	return b.String()
}

// Cutoff returns the earliest normalized modification time a file may have
// and still be kept. time.Time arithmetic covers the full Duration range, so
// the default window never overflows.
func Cutoff(normalizedNow time.Time, window time.Duration) time.Time {
	return normalizedNow.Add(-window)
}
