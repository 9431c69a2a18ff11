package journal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/logkeeper/pkg/retention"
)

func openTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := Open(&Config{
		Path:    filepath.Join(t.TempDir(), "journal.db"),
		WALMode: true,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func testRecord(id string, started time.Time) *retention.SweepRecord {
	return &retention.SweepRecord{
		ID:        id,
		Trigger:   retention.TriggerWrite,
		Mode:      retention.ModeTrailing,
		Window:    5 * time.Minute,
		StartedAt: started,
		Duration:  3 * time.Millisecond,
		Cutoff:    started.Add(-5 * time.Minute),
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(&Config{Driver: "sqlite"})
	var se *StorageError
	if !errors.As(err, &se) || se.Operation != "open" {
		t.Fatalf("Open() error = %v, want open StorageError", err)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	j, err := Open(&Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer j.Close()
	if j.config.Driver != "sqlite" {
		t.Errorf("default driver = %q, want sqlite", j.config.Driver)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(&Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := j.RecordSweep(context.Background(), testRecord("a", time.Now())); err != nil {
		t.Fatal(err)
	}
	j.Close()

	j, err = Open(&Config{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer j.Close()
	n, err := j.Count(context.Background())
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v, want 1", n, err)
	}
}

func TestRecordSweep_RoundTrip(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	started := time.Date(2025, 6, 15, 12, 0, 0, 123, time.UTC)

	rec := testRecord("sweep-1", started)
	rec.Deleted = []string{"/logs/app.1.log", "/logs/app.2.log"}
	rec.Failed = []string{"/logs/app.3.log"}
	rec.Error = "retention sweep of /logs: 1 file(s) failed"

	if err := j.RecordSweep(ctx, rec); err != nil {
		t.Fatalf("RecordSweep() error = %v", err)
	}

	got, err := j.Get(ctx, "sweep-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Trigger != rec.Trigger || got.Mode != rec.Mode || got.Window != rec.Window {
		t.Errorf("got %+v, want %+v", got, rec)
	}
	if !got.StartedAt.Equal(started) || !got.Cutoff.Equal(rec.Cutoff) {
		t.Errorf("times = %v/%v, want %v/%v", got.StartedAt, got.Cutoff, started, rec.Cutoff)
	}
	if got.Duration != rec.Duration || got.Error != rec.Error {
		t.Errorf("duration/error = %v/%q", got.Duration, got.Error)
	}
	if strings.Join(got.Deleted, ",") != "/logs/app.1.log,/logs/app.2.log" {
		t.Errorf("Deleted = %v", got.Deleted)
	}
	if len(got.Failed) != 1 || got.Failed[0] != "/logs/app.3.log" {
		t.Errorf("Failed = %v", got.Failed)
	}
}

func TestRecordSweep_ZeroCutoff(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	rec := testRecord("no-cutoff", time.Now())
	rec.Cutoff = time.Time{}
	if err := j.RecordSweep(ctx, rec); err != nil {
		t.Fatalf("RecordSweep() error = %v", err)
	}

	got, err := j.Get(ctx, "no-cutoff")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Cutoff.IsZero() {
		t.Errorf("Cutoff = %v, want zero", got.Cutoff)
	}
}

func TestRecordSweep_DuplicateID(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	rec := testRecord("dup", time.Now())
	rec.Deleted = []string{"/logs/a.log"}
	if err := j.RecordSweep(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := j.RecordSweep(ctx, rec); err == nil {
		t.Fatal("duplicate sweep ID should fail")
	}

	// The failed transaction must not leave orphan file rows.
	got, err := j.Get(ctx, "dup")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Deleted) != 1 {
		t.Errorf("Deleted = %v, want one entry", got.Deleted)
	}
}

func TestGet_NotFound(t *testing.T) {
	j := openTestJournal(t)
	_, err := j.Get(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d"} {
		rec := testRecord(id, base.Add(time.Duration(i)*time.Minute))
		rec.Deleted = []string{"/logs/" + id + ".log"}
		if err := j.RecordSweep(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
		if len(r.Deleted) != 1 || r.Deleted[0] != "/logs/"+r.ID+".log" {
			t.Errorf("sweep %s Deleted = %v", r.ID, r.Deleted)
		}
	}
	if strings.Join(ids, "") != "dcb" {
		t.Errorf("Recent(3) = %v, want d c b", ids)
	}

	since, err := j.Since(ctx, base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if len(since) != 2 || since[0].ID != "c" || since[1].ID != "d" {
		t.Errorf("Since() returned %d records", len(since))
	}
}

func TestRecent_Empty(t *testing.T) {
	j := openTestJournal(t)
	recs, err := j.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recent() = %d records, want 0", len(recs))
	}
}

func TestPrune(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	old := testRecord("old", now.Add(-48*time.Hour))
	old.Deleted = []string{"/logs/old.log"}
	recent := testRecord("recent", now)
	for _, rec := range []*retention.SweepRecord{old, recent} {
		if err := j.RecordSweep(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := j.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}
	if _, err := j.Get(ctx, "old"); !IsNotFound(err) {
		t.Errorf("old sweep still present: %v", err)
	}
	var files int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM sweep_files WHERE sweep_id = 'old'").Scan(&files); err != nil {
		t.Fatal(err)
	}
	if files != 0 {
		t.Errorf("%d orphan file rows after prune", files)
	}
}

func TestRetainerWritesJournal(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	target := &emptyTarget{filename: filepath.Join(t.TempDir(), "app.log")}
	r, err := retention.New(target, retention.Config{Window: "1h"}, retention.WithJournal(j))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Activate(ctx); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	recs, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Trigger != retention.TriggerActivation || recs[0].Window != time.Hour {
		t.Errorf("journal = %+v", recs)
	}
}

type emptyTarget struct {
	filename string
}

func (e *emptyTarget) Filename() string               { return e.filename }
func (e *emptyTarget) DatePattern() string            { return "" }
func (e *emptyTarget) DeleteFile(string) error        { return nil }
func (e *emptyTarget) AcquireAccess() (func(), error) { return func() {}, nil }

func TestOpen_CgoDriver(t *testing.T) {
	j, err := Open(&Config{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "journal.db"),
	})
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") || strings.Contains(err.Error(), "cgo") {
			t.Skip("sqlite3 driver needs cgo")
		}
		t.Fatalf("Open(sqlite3) error = %v", err)
	}
	defer j.Close()

	if err := j.RecordSweep(context.Background(), testRecord("cgo", time.Now())); err != nil {
		t.Fatalf("RecordSweep() error = %v", err)
	}
}

func TestPing(t *testing.T) {
	j := openTestJournal(t)
	if err := j.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
	if err := j.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close should fail")
	}
}
