package retention

import (
	"errors"
	"testing"
	"time"
)

func TestParseWindow_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{name: "day marker", input: "5d", want: 5 * Day},
		{name: "day marker with space", input: "7 days", want: 7 * Day},
		{name: "day marker upper case", input: " 3D ", want: 3 * Day},
		{name: "single day word", input: "1 day", want: Day},
		{name: "bare day count", input: "5", want: 5 * Day},
		{name: "zero days", input: "0", want: 0},
		{name: "structured with days", input: "5.00:00:00", want: 5 * Day},
		{name: "structured full", input: "1.02:03:04", want: Day + 2*time.Hour + 3*time.Minute + 4*time.Second},
		{name: "hours minutes seconds", input: "00:00:05", want: 5 * time.Second},
		{name: "one hour", input: "01:00:00", want: time.Hour},
		{name: "hours minutes", input: "06:30", want: 6*time.Hour + 30*time.Minute},
		{name: "fraction", input: "00:00:01.5", want: 1500 * time.Millisecond},
		{name: "go literal minutes", input: "90m", want: 90 * time.Minute},
		{name: "go literal mixed", input: "1h30m", want: 90 * time.Minute},
		{name: "default window", input: "36500", want: DefaultWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWindow(tt.input)
			if err != nil {
				t.Fatalf("ParseWindow(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseWindow(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWindow_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "   "},
		{name: "not numeric", input: "forever"},
		{name: "day marker without number", input: "d"},
		{name: "negative structured", input: "-1.00:00:00"},
		{name: "negative go literal", input: "-5m"},
		{name: "hours out of range", input: "24:00:00"},
		{name: "minutes out of range", input: "00:60:00"},
		{name: "decimal days", input: "1.5"},
		{name: "day overflow", input: "999999999d"},
		{name: "structured day overflow", input: "106751.23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWindow(tt.input)
			if err == nil {
				t.Fatalf("ParseWindow(%q) expected error", tt.input)
			}
			if !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("error %v does not wrap ErrInvalidWindow", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a *FormatError", err)
			}
			if fe.Input != tt.input {
				t.Errorf("FormatError.Input = %q, want %q", fe.Input, tt.input)
			}
		})
	}
}

func TestParseWindow_RoundTrip(t *testing.T) {
	inputs := []string{
		"5d",
		"5",
		"5.00:00:00",
		"00:00:05",
		"01:00:00",
		"1.02:03:04",
		"00:00:01.25",
		"36500.00:00:00",
		"106751.00:00:00",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			d, err := ParseWindow(in)
			if err != nil {
				t.Fatalf("ParseWindow(%q) error = %v", in, err)
			}
			canonical := FormatWindow(d)
			again, err := ParseWindow(canonical)
			if err != nil {
				t.Fatalf("ParseWindow(%q) error = %v", canonical, err)
			}
			if again != d {
				t.Errorf("round trip %q -> %q -> %v, want %v", in, canonical, again, d)
			}
		})
	}
}

func TestFormatWindow(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{5 * time.Second, "00:00:05"},
		{time.Hour, "01:00:00"},
		{5 * Day, "5.00:00:00"},
		{Day + 2*time.Hour + 3*time.Minute + 4*time.Second, "1.02:03:04"},
		{1500 * time.Millisecond, "00:00:01.5"},
	}

	for _, tt := range tests {
		if got := FormatWindow(tt.in); got != tt.want {
			t.Errorf("FormatWindow(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCutoff_DefaultWindowDoesNotOverflow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cutoff := Cutoff(now, DefaultWindow)

	if !cutoff.Before(now) {
		t.Fatalf("cutoff %v is not before now %v", cutoff, now)
	}
	if y := cutoff.Year(); y < 1920 || y > 1926 {
		t.Errorf("cutoff year = %d, want about 100 years before 2025", y)
	}

	maxCutoff := Cutoff(now, time.Duration(maxWindowDays)*Day)
	if !maxCutoff.Before(cutoff) {
		t.Errorf("largest window cutoff %v should precede default cutoff %v", maxCutoff, cutoff)
	}
}
