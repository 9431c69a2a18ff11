package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)

	"mercator-hq/logkeeper/pkg/retention"
)

// Config contains configuration for the SQLite journal.
type Config struct {
	// Driver is the database/sql driver: "sqlite" (modernc.org/sqlite) or
	// "sqlite3" (github.com/mattn/go-sqlite3, needs cgo).
	// Default: "sqlite"
	Driver string

	// Path is the database file path. Its directory is created if missing.
	// Default: "data/logkeeper.db"
	Path string

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:      "sqlite",
		Path:        "data/logkeeper.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteJournal stores sweep records in SQLite. It implements
// retention.Journal.
type SQLiteJournal struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// Open opens or creates the journal database and its schema.
func Open(config *Config) (*SQLiteJournal, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Driver == "" {
		config.Driver = "sqlite"
	}
	if config.Path == "" {
		return nil, NewStorageError(config.Driver, "open", fmt.Errorf("path cannot be empty"))
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(config.Driver, "mkdir", err)
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, NewStorageError(config.Driver, "open", err)
	}

	// SQLite only supports a single writer; one connection also keeps the
	// per-connection pragmas below in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	j := &SQLiteJournal{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "journal.sqlite"),
	}

	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	j.logger.Debug("journal opened",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return j, nil
}

// initialize sets pragmas, creates the schema and checks its version.
func (j *SQLiteJournal) initialize() error {
	if j.config.WALMode {
		if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError(j.config.Driver, "enable_wal", err)
		}
	}

	if _, err := j.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", j.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError(j.config.Driver, "set_busy_timeout", err)
	}

	if _, err := j.db.Exec(Schema); err != nil {
		return NewStorageError(j.config.Driver, "create_schema", err)
	}

	if _, err := j.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(j.config.Driver, "insert_schema_version", err)
	}

	var version int
	if err := j.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(j.config.Driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(j.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// RecordSweep stores one sweep and its files in a single transaction.
func (j *SQLiteJournal) RecordSweep(ctx context.Context, rec *retention.SweepRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError(j.config.Driver, "begin", err)
	}
	defer tx.Rollback()

	var cutoff sql.NullInt64
	if !rec.Cutoff.IsZero() {
		cutoff = sql.NullInt64{Int64: rec.Cutoff.UnixNano(), Valid: true}
	}
	var errMsg sql.NullString
	if rec.Error != "" {
		errMsg = sql.NullString{String: rec.Error, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sweeps (
			id, trigger_source, mode, window_ns, started_at, duration_ns,
			cutoff, deleted_count, failed_count, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Trigger, string(rec.Mode), int64(rec.Window), rec.StartedAt.UnixNano(), int64(rec.Duration),
		cutoff, len(rec.Deleted), len(rec.Failed), errMsg,
	)
	if err != nil {
		return NewStorageError(j.config.Driver, "record", err)
	}

	if len(rec.Deleted)+len(rec.Failed) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO sweep_files (sweep_id, path, outcome) VALUES (?, ?, ?)`)
		if err != nil {
			return NewStorageError(j.config.Driver, "prepare", err)
		}
		defer stmt.Close()

		for _, path := range rec.Deleted {
			if _, err := stmt.ExecContext(ctx, rec.ID, path, OutcomeDeleted); err != nil {
				return NewStorageError(j.config.Driver, "record_file", err)
			}
		}
		for _, path := range rec.Failed {
			if _, err := stmt.ExecContext(ctx, rec.ID, path, OutcomeFailed); err != nil {
				return NewStorageError(j.config.Driver, "record_file", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError(j.config.Driver, "commit", err)
	}
	return nil
}

const selectSweeps = `
	SELECT id, trigger_source, mode, window_ns, started_at, duration_ns,
	       cutoff, error_message
	FROM sweeps`

// Recent returns up to limit sweeps, newest first. A limit of zero or less
// returns 20.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]*retention.SweepRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return j.query(ctx, selectSweeps+" ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
}

// Since returns every sweep that started at or after t, oldest first.
func (j *SQLiteJournal) Since(ctx context.Context, t time.Time) ([]*retention.SweepRecord, error) {
	return j.query(ctx, selectSweeps+" WHERE started_at >= ? ORDER BY started_at ASC, rowid ASC", t.UnixNano())
}

// Get returns one sweep by ID.
func (j *SQLiteJournal) Get(ctx context.Context, id string) (*retention.SweepRecord, error) {
	recs, err := j.query(ctx, selectSweeps+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// Count returns the number of sweeps in the journal.
func (j *SQLiteJournal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sweeps").Scan(&n); err != nil {
		return 0, NewStorageError(j.config.Driver, "count", err)
	}
	return n, nil
}

// Prune deletes sweeps that started before t, and their files. It returns
// the number of sweeps deleted.
func (j *SQLiteJournal) Prune(ctx context.Context, before time.Time) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewStorageError(j.config.Driver, "begin", err)
	}
	defer tx.Rollback()

	cutoff := before.UnixNano()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sweep_files WHERE sweep_id IN (SELECT id FROM sweeps WHERE started_at < ?)", cutoff); err != nil {
		return 0, NewStorageError(j.config.Driver, "prune_files", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sweeps WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, NewStorageError(j.config.Driver, "prune", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError(j.config.Driver, "prune", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, NewStorageError(j.config.Driver, "commit", err)
	}

	if deleted > 0 {
		j.logger.Info("pruned journal", "deleted_count", deleted, "before", before)
	}
	return deleted, nil
}

// Ping checks that the database is reachable.
func (j *SQLiteJournal) Ping(ctx context.Context) error {
	if err := j.db.PingContext(ctx); err != nil {
		return NewStorageError(j.config.Driver, "ping", err)
	}
	return nil
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	if err := j.db.Close(); err != nil {
		return NewStorageError(j.config.Driver, "close", err)
	}
	return nil
}

// query runs a sweeps query and then loads the files of every returned sweep.
// The sweep rows are fully read before the second query because the pool
// holds a single connection.
func (j *SQLiteJournal) query(ctx context.Context, query string, args ...any) ([]*retention.SweepRecord, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(j.config.Driver, "query", err)
	}

	var (
		records []*retention.SweepRecord
		byID    = make(map[string]*retention.SweepRecord)
	)
	for rows.Next() {
		var (
			rec                       retention.SweepRecord
			mode                      string
			window, started, duration int64
			cutoff                    sql.NullInt64
			errMsg                    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Trigger, &mode, &window, &started, &duration, &cutoff, &errMsg); err != nil {
			rows.Close()
			return nil, NewStorageError(j.config.Driver, "scan", err)
		}
		rec.Mode = retention.Mode(mode)
		rec.Window = time.Duration(window)
		rec.StartedAt = time.Unix(0, started)
		rec.Duration = time.Duration(duration)
		if cutoff.Valid {
			rec.Cutoff = time.Unix(0, cutoff.Int64)
		}
		rec.Error = errMsg.String

		records = append(records, &rec)
		byID[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, NewStorageError(j.config.Driver, "scan", err)
	}
	rows.Close()

	if len(records) == 0 {
		return records, nil
	}
	if err := j.loadFiles(ctx, byID); err != nil {
		return nil, err
	}
	return records, nil
}

func (j *SQLiteJournal) loadFiles(ctx context.Context, byID map[string]*retention.SweepRecord) error {
	ids := make([]any, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := j.db.QueryContext(ctx,
		"SELECT sweep_id, path, outcome FROM sweep_files WHERE sweep_id IN ("+placeholders+") ORDER BY rowid", ids...)
	if err != nil {
		return NewStorageError(j.config.Driver, "query_files", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, path, outcome string
		if err := rows.Scan(&id, &path, &outcome); err != nil {
			return NewStorageError(j.config.Driver, "scan_files", err)
		}
		rec := byID[id]
		switch outcome {
		case OutcomeDeleted:
			rec.Deleted = append(rec.Deleted, path)
		case OutcomeFailed:
			rec.Failed = append(rec.Failed, path)
		}
	}
	if err := rows.Err(); err != nil {
		return NewStorageError(j.config.Driver, "scan_files", err)
	}
	return nil
}

// IsNotFound reports whether err means the sweep does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
