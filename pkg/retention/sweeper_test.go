package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestSweeper_TrailingFiveMinutes(t *testing.T) {
	target := newDirTarget(t, "")
	now := time.Date(2025, 6, 15, 12, 0, 30, 0, time.Local)

	target.writeFile(t, "app.1.log", now.Add(-10*time.Minute))
	target.writeFile(t, "app.2.log", now.Add(-4*time.Minute))
	target.writeFile(t, "app.3.log", now.Add(-1*time.Minute))

	s := NewSweeper(target, NewTrailingAnchor(5*time.Minute), 5*time.Minute)
	result, err := s.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(result.Deleted) != 1 || filepath.Base(result.Deleted[0]) != "app.1.log" {
		t.Errorf("Deleted = %v, want only app.1.log", result.Deleted)
	}
	if result.Kept != 2 || result.Candidates != 3 {
		t.Errorf("Kept = %d, Candidates = %d, want 2 and 3", result.Kept, result.Candidates)
	}
	if target.exists("app.1.log") {
		t.Error("app.1.log should have been deleted")
	}
	if !target.exists("app.2.log") || !target.exists("app.3.log") {
		t.Error("recent files should remain")
	}
	if want := time.Date(2025, 6, 15, 11, 55, 0, 0, time.Local); !result.Cutoff.Equal(want) {
		t.Errorf("Cutoff = %v, want %v", result.Cutoff, want)
	}
}

func TestSweeper_CutoffIsStrict(t *testing.T) {
	target := newDirTarget(t, "")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	cutoff := now.Add(-time.Hour)

	target.writeFile(t, "app.at-cutoff.log", cutoff)
	target.writeFile(t, "app.same-bucket.log", cutoff.Add(59*time.Minute))
	target.writeFile(t, "app.before.log", cutoff.Add(-time.Second))

	s := NewSweeper(target, NewTrailingAnchor(time.Hour), time.Hour)
	result, err := s.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(result.Deleted) != 1 || filepath.Base(result.Deleted[0]) != "app.before.log" {
		t.Errorf("Deleted = %v, want only app.before.log", result.Deleted)
	}
	if !target.exists("app.at-cutoff.log") {
		t.Error("a file exactly at the cutoff must be kept")
	}
}

func TestSweeper_CandidateSelection(t *testing.T) {
	target := newDirTarget(t, "")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	old := now.Add(-30 * Day)

	target.writeFile(t, "app-2025-05-01T00-00-00.000.log", old)
	target.writeFile(t, "app.log.gz", old)
	target.writeFile(t, "myapp.txt", old)
	target.writeFile(t, "other.log", old)
	target.writeFile(t, "unrelated.txt", old)
	if err := os.Mkdir(filepath.Join(target.dir(), "app-archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewSweeper(target, NewTrailingAnchor(7*Day), 7*Day)
	result, err := s.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	var got []string
	for _, p := range result.Deleted {
		got = append(got, filepath.Base(p))
	}
	sort.Strings(got)
	want := []string{"app-2025-05-01T00-00-00.000.log", "app.log.gz", "myapp.txt"}
	if len(got) != len(want) {
		t.Fatalf("Deleted = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Deleted[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if !target.exists("other.log") || !target.exists("unrelated.txt") || !target.exists("app-archive") {
		t.Error("non-candidates must not be touched")
	}
}

func TestSweeper_PerFileIsolation(t *testing.T) {
	target := newDirTarget(t, "")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	old := now.Add(-10 * Day)

	target.writeFile(t, "app.1.log", old)
	target.writeFile(t, "app.2.log", old)
	target.writeFile(t, "app.3.log", old)
	denied := errors.New("permission denied")
	target.failOn["app.2.log"] = denied

	s := NewSweeper(target, NewTrailingAnchor(Day), Day)
	result, err := s.Sweep(context.Background(), now)

	var se *SweepError
	if !errors.As(err, &se) {
		t.Fatalf("Sweep() error = %v, want *SweepError", err)
	}
	if !errors.Is(err, denied) {
		t.Errorf("error does not wrap the delete failure: %v", err)
	}
	if len(se.Files) != 1 || filepath.Base(se.Files[0].Path) != "app.2.log" || se.Files[0].Operation != "delete" {
		t.Errorf("SweepError.Files = %+v", se.Files)
	}
	if len(result.Deleted) != 2 {
		t.Errorf("Deleted = %v, want the two other files", result.Deleted)
	}
	if target.exists("app.1.log") || target.exists("app.3.log") {
		t.Error("files after the failing one must still be deleted")
	}
}

func TestSweeper_ReleasesAccessOnError(t *testing.T) {
	target := newDirTarget(t, "")
	target.filename = filepath.Join(target.dir(), "missing", "app.log")

	s := NewSweeper(target, NewTrailingAnchor(Day), Day)
	_, err := s.Sweep(context.Background(), time.Now())

	var se *SweepError
	if !errors.As(err, &se) || se.Cause == nil {
		t.Fatalf("Sweep() error = %v, want directory-level *SweepError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
	if target.acquired != 1 || target.released != 1 {
		t.Errorf("acquired=%d released=%d, want 1/1", target.acquired, target.released)
	}
}

func TestSweeper_AccessFailure(t *testing.T) {
	target := newDirTarget(t, "")
	target.accessErr = errors.New("logon failed")
	target.writeFile(t, "app.1.log", time.Now().Add(-10*Day))

	s := NewSweeper(target, NewTrailingAnchor(Day), Day)
	_, err := s.Sweep(context.Background(), time.Now())

	if !errors.Is(err, target.accessErr) {
		t.Fatalf("Sweep() error = %v, want access error", err)
	}
	if target.released != 1 {
		t.Errorf("released = %d, want 1", target.released)
	}
	if !target.exists("app.1.log") {
		t.Error("nothing may be deleted without access")
	}
}

func TestSweeper_DryRun(t *testing.T) {
	target := newDirTarget(t, "")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	target.writeFile(t, "app.1.log", now.Add(-10*Day))

	s := NewSweeper(target, NewTrailingAnchor(Day), Day)
	result, err := s.DryRun(context.Background(), now)
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	if !result.DryRun || len(result.Deleted) != 1 {
		t.Errorf("DryRun result = %+v", result)
	}
	if !target.exists("app.1.log") || target.deletedCount() != 0 {
		t.Error("dry run must not delete")
	}
}

func TestSweeper_ContextCancelled(t *testing.T) {
	target := newDirTarget(t, "")
	target.writeFile(t, "app.1.log", time.Now().Add(-10*Day))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSweeper(target, NewTrailingAnchor(Day), Day)
	if _, err := s.Sweep(ctx, time.Now()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sweep() error = %v, want context.Canceled", err)
	}
	if !target.exists("app.1.log") {
		t.Error("cancelled sweep should not delete")
	}
}

func TestSweeper_DefaultWindowKeepsEverything(t *testing.T) {
	target := newDirTarget(t, "2006-01-02 15:04")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	target.writeFile(t, "app.1.log", now.AddDate(-50, 0, 0))

	s := NewSweeper(target, NewCalendarAnchor(target.pattern), DefaultWindow)
	result, err := s.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Deleted) != 0 {
		t.Errorf("Deleted = %v, want nothing", result.Deleted)
	}
}

func TestBaseStem(t *testing.T) {
	tests := map[string]string{
		"/var/log/app.log":     "app",
		"/var/log/app":         "app",
		"/var/log/app.tar.gz":  "app.tar",
		"/var/log/.log":        ".log",
		"relative/service.txt": "service",
	}
	for in, want := range tests {
		if got := baseStem(in); got != want {
			t.Errorf("baseStem(%q) = %q, want %q", in, got, want)
		}
	}
}
