package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/logkeeper/pkg/cli"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgFile, verbose, outputFormat = "", false, "text"
	sweepFlags.dryRun = false
	writeFlags.tee = false
	historyFlags.limit, historyFlags.since, historyFlags.prune = 20, "", ""

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// testEnv is a config file plus the directory it manages.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T, retention string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := `
log:
  file: ` + filepath.Join(dir, "logs", "app.log") + `
  date_pattern: "2006-01-02"
retention:
` + retention + `
journal:
  enabled: true
  path: ` + filepath.Join(dir, "journal.db") + `
telemetry:
  logging:
    level: error
  metrics:
    enabled: false
`
	path := filepath.Join(dir, "logkeeper.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		t.Fatal(err)
	}
	return &testEnv{dir: dir, config: path}
}

func (e *testEnv) logFile(t *testing.T, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(e.dir, "logs", name)
	if err := os.WriteFile(path, []byte(name+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func TestValidateCommand(t *testing.T) {
	env := newTestEnv(t, "  window: 7d\n  mode: calendar")

	out, err := execute(t, "", "validate", "-c", env.config)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "✓ Configuration valid") || !strings.Contains(out, "7.00:00:00 window, calendar mode") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestValidateCommand_IncompatibleWindow(t *testing.T) {
	env := newTestEnv(t, "  window: \"00:05:00\"\n  mode: trailing")

	_, err := execute(t, "", "validate", "-c", env.config)
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "retention.window" {
		t.Errorf("error = %v, want config error on retention.window", err)
	}
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d", cli.ExitCode(err), cli.ExitConfig)
	}
}

func TestSweepCommand(t *testing.T) {
	env := newTestEnv(t, "  window: 7d")
	old := env.logFile(t, "app.2025-01-01.log", 30*24*time.Hour)
	recent := env.logFile(t, "app.recent.log", time.Hour)
	other := env.logFile(t, "other.log", 30*24*time.Hour)

	out, err := execute(t, "", "sweep", "--dry-run", "-o", "json", "-c", env.config)
	if err != nil {
		t.Fatalf("sweep --dry-run error = %v", err)
	}
	var rep sweepReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}
	if !rep.DryRun || len(rep.Deleted) != 1 || rep.Deleted[0] != old {
		t.Errorf("dry run report = %+v", rep)
	}
	if !exists(old) {
		t.Fatal("dry run deleted a file")
	}

	out, err = execute(t, "", "sweep", "-c", env.config)
	if err != nil {
		t.Fatalf("sweep error = %v", err)
	}
	if !strings.Contains(out, "✓ Deleted 1 file(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if exists(old) {
		t.Error("expired file was not deleted")
	}
	if !exists(recent) || !exists(other) {
		t.Error("sweep deleted a file it should keep")
	}

	out, err = execute(t, "", "history", "-o", "json", "-c", env.config)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0]["Trigger"] != "activation" {
		t.Errorf("history = %v, want one activation sweep", records)
	}

	out, err = execute(t, "", "history", "--prune", "0d", "-c", env.config)
	if err != nil {
		t.Fatalf("history --prune error = %v", err)
	}
	if !strings.Contains(out, "Pruned 1 sweep record(s)") {
		t.Errorf("unexpected prune output:\n%s", out)
	}
}

func TestHistoryCommand_JournalDisabled(t *testing.T) {
	env := newTestEnv(t, "  window: 7d")
	t.Setenv("LOGKEEPER_JOURNAL_ENABLED", "false")

	_, err := execute(t, "", "history", "-c", env.config)
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("error = %v, want a config error", err)
	}
}

func TestWriteCommand(t *testing.T) {
	env := newTestEnv(t, "  window: 7d")
	old := env.logFile(t, "app.2025-01-01.log", 30*24*time.Hour)

	out, err := execute(t, "first\nsecond\nno newline", "write", "--tee", "-c", env.config)
	if err != nil {
		t.Fatalf("write error = %v", err)
	}
	if out != "first\nsecond\nno newline" {
		t.Errorf("tee output = %q", out)
	}

	data, err := os.ReadFile(filepath.Join(env.dir, "logs", "app.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "first\nsecond\nno newline" {
		t.Errorf("log contents = %q", data)
	}
	if exists(old) {
		t.Error("activation should have deleted the expired file")
	}
}

func TestCopyLines(t *testing.T) {
	dst := &bytes.Buffer{}
	n, err := copyLines(dst, strings.NewReader("a\nb\n"), make(chan struct{}))
	if err != nil || n != 2 || dst.String() != "a\nb\n" {
		t.Errorf("copyLines() = %d, %v, %q", n, err, dst.String())
	}

	done := make(chan struct{})
	close(done)
	n, _ = copyLines(&bytes.Buffer{}, strings.NewReader("a\n"), done)
	if n != 0 {
		t.Errorf("copyLines() after done copied %d lines", n)
	}
}

func TestOutputFlag_Invalid(t *testing.T) {
	_, err := execute(t, "", "sweep", "-o", "xml")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("error = %v, want a config error", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "Logkeeper "+Version) || !strings.Contains(out, "Go Version:") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
