package store

// schemaVersion is stored in PRAGMA user_version. The manifest only caches
// what is already on disk, so an older layout is dropped and rebuilt.
const schemaVersion = 2

const dropSQL = `
DROP TABLE IF EXISTS artifacts;
DROP TABLE IF EXISTS runs;
`

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id               TEXT PRIMARY KEY,
    started_at           TEXT NOT NULL,
    finished_at          TEXT,
    output_dir           TEXT NOT NULL,
    days                 INTEGER NOT NULL,
    rendered             INTEGER NOT NULL DEFAULT 0,
    skipped              INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS artifacts (
    path                 TEXT PRIMARY KEY,
    day                  INTEGER NOT NULL,
    fingerprint          TEXT NOT NULL,
    size_bytes           INTEGER NOT NULL,
    content_hash         TEXT NOT NULL,
    run_id               TEXT NOT NULL REFERENCES runs(run_id),
    rendered_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_day ON artifacts(day);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
