package retention

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Target is the rolling writer whose files are retained.
type Target interface {
	// Filename is the path of the active log file.
	Filename() string

	// DatePattern is the Go layout the writer rolls on; empty if it only
	// rolls on size.
	DatePattern() string

	// DeleteFile removes one rolled file.
	DeleteFile(path string) error

	// AcquireAccess enters the filesystem access context used for a sweep.
	// The returned release func is always called, including on error paths.
	AcquireAccess() (release func(), err error)
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Dir        string
	Cutoff     time.Time
	Candidates int
	Deleted    []string
	Kept       int
	Failed     []*FileError
	DryRun     bool
}

// Sweeper deletes candidate files whose normalized modification time is
// strictly before the cutoff.
type Sweeper struct {
	target Target
	anchor Anchor
	window time.Duration
}

// NewSweeper creates a sweeper for target.
func NewSweeper(target Target, anchor Anchor, window time.Duration) *Sweeper {
	return &Sweeper{
		target: target,
		anchor: anchor,
		window: window,
	}
}

// Sweep deletes expired candidates. A file that cannot be inspected or
// deleted is recorded and the remaining candidates are still processed;
// such failures are returned together as a *SweepError alongside the result.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	return s.run(ctx, now, false)
}

// DryRun reports what Sweep would delete without touching the filesystem.
func (s *Sweeper) DryRun(ctx context.Context, now time.Time) (*SweepResult, error) {
	return s.run(ctx, now, true)
}

func (s *Sweeper) run(ctx context.Context, now time.Time, dryRun bool) (*SweepResult, error) {
	filename := s.target.Filename()
	dir := filepath.Dir(filename)
	result := &SweepResult{
		Dir:    dir,
		Cutoff: Cutoff(s.anchor.Normalize(now), s.window),
		DryRun: dryRun,
	}

	release, err := s.target.AcquireAccess()
	if release != nil {
		defer release()
	}
	if err != nil {
		return result, &SweepError{Dir: dir, Cause: err}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, &SweepError{Dir: dir, Cause: err}
	}

	stem := baseStem(filename)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.IsDir() || !strings.Contains(entry.Name(), stem) {
			continue
		}
		result.Candidates++

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Failed = append(result.Failed, &FileError{Path: path, Operation: "stat", Cause: err})
			continue
		}

		if !s.anchor.Normalize(info.ModTime()).Before(result.Cutoff) {
			result.Kept++
			continue
		}

		if !dryRun {
			if err := s.target.DeleteFile(path); err != nil {
				result.Failed = append(result.Failed, &FileError{Path: path, Operation: "delete", Cause: err})
				continue
			}
		}
		result.Deleted = append(result.Deleted, path)
	}

	if len(result.Failed) > 0 {
		return result, &SweepError{Dir: dir, Files: result.Failed}
	}
	return result, nil
}

// baseStem is the log file name without its extension. A name that is only
// an extension (".log") is used whole so it cannot match every file.
func baseStem(filename string) string {
	name := filepath.Base(filename)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		return name
	}
	return stem
}
