package journal

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the journal tables. Timestamps and durations are stored as
// Unix nanoseconds so both drivers read them back identically.
const Schema = `
-- One row per sweep
CREATE TABLE IF NOT EXISTS sweeps (
    id TEXT PRIMARY KEY,
    trigger_source TEXT NOT NULL,
    mode TEXT NOT NULL,
    window_ns INTEGER NOT NULL,
    started_at INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,
    cutoff INTEGER,
    deleted_count INTEGER NOT NULL,
    failed_count INTEGER NOT NULL,
    error_message TEXT
);

-- One row per deleted or failed file
CREATE TABLE IF NOT EXISTS sweep_files (
    sweep_id TEXT NOT NULL,
    path TEXT NOT NULL,
    outcome TEXT NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sweeps_started_at ON sweeps(started_at);
CREATE INDEX IF NOT EXISTS idx_sweep_files_sweep_id ON sweep_files(sweep_id);
CREATE INDEX IF NOT EXISTS idx_sweep_files_path ON sweep_files(path);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// File outcomes stored in sweep_files.outcome.
const (
	OutcomeDeleted = "deleted"
	OutcomeFailed  = "failed"
)
