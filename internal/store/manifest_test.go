package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func openTestManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), "cache", "manifest.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRecordAndLookup(t *testing.T) {
	m := openTestManifest(t)

	runID, err := m.BeginRun(".", 5)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if runID == "" {
		t.Fatal("BeginRun returned empty run ID")
	}

	if _, ok, err := m.Lookup("sprint_burndown_day1.png"); err != nil || ok {
		t.Fatalf("Lookup before record: ok=%v err=%v", ok, err)
	}

	want := Entry{
		Path:        "sprint_burndown_day1.png",
		Day:         1,
		Fingerprint: 0xfeedfacecafebeef,
		SizeBytes:   12345,
		ContentHash: "ab12",
		RunID:       runID,
	}
	if err := m.RecordArtifact(want); err != nil {
		t.Fatalf("RecordArtifact: %v", err)
	}

	got, ok, err := m.Lookup(want.Path)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if got.Fingerprint != want.Fingerprint {
		t.Fatalf("Fingerprint = %x, want %x", got.Fingerprint, want.Fingerprint)
	}
	if got.Day != 1 || got.SizeBytes != 12345 || got.ContentHash != "ab12" || got.RunID != runID {
		t.Fatalf("entry = %+v", got)
	}
	if got.RenderedAt.IsZero() {
		t.Fatal("RenderedAt not stored")
	}

	// Re-recording replaces rather than duplicates.
	want.SizeBytes = 999
	if err := m.RecordArtifact(want); err != nil {
		t.Fatalf("RecordArtifact (replace): %v", err)
	}
	n, err := m.ArtifactCount()
	if err != nil || n != 1 {
		t.Fatalf("ArtifactCount = %d, %v; want 1", n, err)
	}
}

func TestRuns(t *testing.T) {
	m := openTestManifest(t)

	first, err := m.BeginRun("out", 5)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.FinishRun(first, 5, 0); err != nil {
		t.Fatal(err)
	}
	second, err := m.BeginRun("out", 5)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.FinishRun(second, 0, 5); err != nil {
		t.Fatal(err)
	}

	runs, err := m.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != second || runs[0].Skipped != 5 {
		t.Fatalf("newest run = %+v, want %s with 5 skipped", runs[0], second)
	}
	if runs[1].Rendered != 5 || runs[1].FinishedAt.IsZero() {
		t.Fatalf("oldest run = %+v", runs[1])
	}
}

func TestPrune(t *testing.T) {
	m := openTestManifest(t)
	dir := t.TempDir()

	runID, err := m.BeginRun(dir, 2)
	if err != nil {
		t.Fatal(err)
	}

	kept := filepath.Join(dir, "kept.png")
	if err := os.WriteFile(kept, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	for i, p := range []string{kept, filepath.Join(dir, "gone.png")} {
		if err := m.RecordArtifact(Entry{Path: p, Day: i + 1, Fingerprint: 1, SizeBytes: 1, RunID: runID}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := m.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	entries, err := m.ListArtifacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Path != kept {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestOpen_RebuildsOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = old.Exec(`CREATE TABLE artifacts (path TEXT PRIMARY KEY, day INTEGER, fingerprint TEXT,
		size_bytes INTEGER, run_id TEXT, rendered_at TEXT);
		INSERT INTO artifacts VALUES ('stale.png', 1, '00', 1, 'x', '');
		PRAGMA user_version = 1;`)
	if err != nil {
		t.Fatal(err)
	}
	_ = old.Close()

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	if n, err := m.ArtifactCount(); err != nil || n != 0 {
		t.Fatalf("ArtifactCount = %d, %v; want 0 after rebuild", n, err)
	}
	runID, err := m.BeginRun(".", 1)
	if err != nil {
		t.Fatal(err)
	}
	err = m.RecordArtifact(Entry{Path: "a.png", Day: 1, SizeBytes: 3, ContentHash: "ff", RunID: runID})
	if err != nil {
		t.Fatalf("RecordArtifact on rebuilt schema: %v", err)
	}
}
