package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirCheck fails when dir is missing, is not a directory, or cannot be
// written to. A sweep needs to list and delete in the log directory.
func DirCheck(dir string) CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		f, err := os.CreateTemp(dir, ".logkeeper-health-*")
		if err != nil {
			return fmt.Errorf("log directory not writable: %w", err)
		}
		name := f.Name()
		_ = f.Close()
		return os.Remove(filepath.Clean(name))
	}
}

// RunningCheck fails when running reports false. Used for the janitor.
func RunningCheck(what string, running func() bool) CheckFunc {
	return func(ctx context.Context) error {
		if !running() {
			return fmt.Errorf("%s is not running", what)
		}
		return nil
	}
}

// OverdueCheck fails when the next deadline passed more than grace ago,
// which means nothing has swept the log for a while.
func OverdueCheck(next func() time.Time, grace time.Duration) CheckFunc {
	return func(ctx context.Context) error {
		n := next()
		if n.IsZero() {
			return fmt.Errorf("retention not activated")
		}
		if late := time.Since(n); late > grace {
			return fmt.Errorf("sweep overdue by %s", late.Truncate(time.Second))
		}
		return nil
	}
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck fails when p cannot be reached.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}
