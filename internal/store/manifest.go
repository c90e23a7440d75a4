// Package store provides a SQLite-backed manifest of rendered chart images.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Manifest records which chart images were written and from which inputs.
type Manifest struct {
	db *sql.DB
}

// Entry is the stored record for one chart image.
type Entry struct {
	Path        string
	Day         int
	Fingerprint uint64
	SizeBytes   int64
	ContentHash string // hex SHA-256 of the written file
	RunID       string
	RenderedAt  time.Time
}

// Run is the stored record for one invocation of the render loop.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	OutputDir  string
	Days       int
	Rendered   int
	Skipped    int
}

// Open opens or creates the manifest database at the given path.
func Open(dbPath string) (*Manifest, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating manifest dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening manifest db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Manifest{db: db}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version != schemaVersion {
		if _, err := db.Exec(dropSQL); err != nil {
			return fmt.Errorf("dropping old schema: %w", err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return nil
}

// Close closes the manifest database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// BeginRun starts a new run record and returns its ID.
func (m *Manifest) BeginRun(outputDir string, days int) (string, error) {
	id := uuid.NewString()
	_, err := m.db.Exec(`INSERT INTO runs (run_id, started_at, output_dir, days)
		VALUES (?, ?, ?, ?)`, id, formatTime(time.Now()), outputDir, days)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run with its completion time and counts.
func (m *Manifest) FinishRun(runID string, rendered, skipped int) error {
	_, err := m.db.Exec(`UPDATE runs SET finished_at = ?, rendered = ?, skipped = ?
		WHERE run_id = ?`, formatTime(time.Now()), rendered, skipped, runID)
	return err
}

// Lookup returns the stored entry for path. ok is false when the path has
// never been recorded.
func (m *Manifest) Lookup(path string) (Entry, bool, error) {
	var e Entry
	var fp, renderedAt string
	err := m.db.QueryRow(`SELECT path, day, fingerprint, size_bytes, content_hash, run_id, rendered_at
		FROM artifacts WHERE path = ?`, path).
		Scan(&e.Path, &e.Day, &fp, &e.SizeBytes, &e.ContentHash, &e.RunID, &renderedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if e.Fingerprint, err = parseFingerprint(fp); err != nil {
		return Entry{}, false, err
	}
	e.RenderedAt, _ = time.Parse(time.RFC3339, renderedAt)
	return e, true, nil
}

// RecordArtifact stores or replaces the entry for a written image.
func (m *Manifest) RecordArtifact(e Entry) error {
	if e.RenderedAt.IsZero() {
		e.RenderedAt = time.Now()
	}
	_, err := m.db.Exec(`INSERT OR REPLACE INTO artifacts
		(path, day, fingerprint, size_bytes, content_hash, run_id, rendered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.Day, formatFingerprint(e.Fingerprint), e.SizeBytes, e.ContentHash, e.RunID, formatTime(e.RenderedAt),
	)
	return err
}

// ListArtifacts returns every recorded image ordered by path.
func (m *Manifest) ListArtifacts() ([]Entry, error) {
	rows, err := m.db.Query(`SELECT path, day, fingerprint, size_bytes, content_hash, run_id, rendered_at
		FROM artifacts ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fp, renderedAt string
		if err := rows.Scan(&e.Path, &e.Day, &fp, &e.SizeBytes, &e.ContentHash, &e.RunID, &renderedAt); err != nil {
			return nil, err
		}
		if e.Fingerprint, err = parseFingerprint(fp); err != nil {
			return nil, err
		}
		e.RenderedAt, _ = time.Parse(time.RFC3339, renderedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListRuns returns the most recent runs, newest first.
func (m *Manifest) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := m.db.Query(`SELECT run_id, started_at, finished_at, output_dir, days, rendered, skipped
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&r.ID, &started, &finished, &r.OutputDir, &r.Days, &r.Rendered, &r.Skipped); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished.Valid && finished.String != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339, finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune removes entries whose image no longer exists on disk and returns how
// many were dropped.
func (m *Manifest) Prune() (int, error) {
	entries, err := m.ListArtifacts()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if _, err := os.Stat(e.Path); err == nil {
			continue
		}
		if _, err := m.db.Exec("DELETE FROM artifacts WHERE path = ?", e.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ArtifactCount returns the number of recorded images.
func (m *Manifest) ArtifactCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM artifacts").Scan(&count)
	return count, err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Fingerprints are uint64; SQLite integers are signed, so they are kept as text.
func formatFingerprint(fp uint64) string {
	return strconv.FormatUint(fp, 16)
}

func parseFingerprint(s string) (uint64, error) {
	fp, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad fingerprint %q: %w", s, err)
	}
	return fp, nil
}
