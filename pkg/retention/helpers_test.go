package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// dirTarget is a Target over a real temporary directory.
type dirTarget struct {
	filename string
	pattern  string

	mu        sync.Mutex
	failOn    map[string]error
	deleted   []string
	acquired  int
	released  int
	accessErr error
}

func newDirTarget(t *testing.T, pattern string) *dirTarget {
	t.Helper()
	return &dirTarget{
		filename: filepath.Join(t.TempDir(), "app.log"),
		pattern:  pattern,
		failOn:   make(map[string]error),
	}
}

func (d *dirTarget) Filename() string    { return d.filename }
func (d *dirTarget) DatePattern() string { return d.pattern }

func (d *dirTarget) DeleteFile(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.failOn[filepath.Base(path)]; ok {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	d.deleted = append(d.deleted, filepath.Base(path))
	return nil
}

func (d *dirTarget) AcquireAccess() (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acquired++
	return func() {
		d.mu.Lock()
		d.released++
		d.mu.Unlock()
	}, d.accessErr
}

func (d *dirTarget) dir() string { return filepath.Dir(d.filename) }

// writeFile creates name in the target directory with the given mtime.
func (d *dirTarget) writeFile(t *testing.T, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(d.dir(), name)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func (d *dirTarget) exists(name string) bool {
	_, err := os.Stat(filepath.Join(d.dir(), name))
	return !errors.Is(err, os.ErrNotExist)
}

func (d *dirTarget) deletedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.deleted)
}

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock { return &testClock{now: now} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memJournal records sweeps in memory.
type memJournal struct {
	mu      sync.Mutex
	records []*SweepRecord
	err     error
}

func (j *memJournal) RecordSweep(_ context.Context, rec *SweepRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return j.err
}

func (j *memJournal) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.records)
}
