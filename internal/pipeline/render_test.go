package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/model"
	"github.com/theirongolddev/burndown/internal/plot"
	"github.com/theirongolddev/burndown/internal/store"
)

func testOptions(dir string) Options {
	return Options{Dir: dir, Pattern: config.DefaultPattern, Plot: plot.DefaultOptions()}
}

func TestRenderAll_WritesFiveFiles(t *testing.T) {
	dir := t.TempDir()

	var calls []int
	result, err := RenderAll(context.Background(), model.DefaultSprint(), testOptions(dir), func(current, total int) {
		if total != 5 {
			t.Errorf("progress total = %d, want 5", total)
		}
		calls = append(calls, current)
	})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if result.Rendered != 5 || len(result.Artifacts) != 5 {
		t.Fatalf("rendered = %d, artifacts = %d; want 5", result.Rendered, len(result.Artifacts))
	}
	if len(calls) != 5 || calls[4] != 5 {
		t.Fatalf("progress calls = %v", calls)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("files = %d, want 5", len(entries))
	}
	for d := 1; d <= 5; d++ {
		name := filepath.Join(dir, plot.FileName(config.DefaultPattern, d))
		info, err := os.Stat(name)
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if info.Size() != result.Artifacts[d-1].Bytes {
			t.Fatalf("%s size = %d, artifact says %d", name, info.Size(), result.Artifacts[d-1].Bytes)
		}
	}
}

func TestRenderAll_Idempotent(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	s := model.DefaultSprint()

	if _, err := RenderAll(context.Background(), s, opts, nil); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(opts.Path(3))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := RenderAll(context.Background(), s, opts, nil); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(opts.Path(3))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("re-rendering day 3 produced different bytes")
	}
}

func TestRenderAll_SingleDay(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.Day = 4

	result, err := RenderAll(context.Background(), model.DefaultSprint(), opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Artifacts) != 1 || result.Artifacts[0].Day != 4 {
		t.Fatalf("artifacts = %+v", result.Artifacts)
	}
	if _, err := os.Stat(filepath.Join(dir, "sprint_burndown_day4.png")); err != nil {
		t.Fatal(err)
	}

	opts.Day = 9
	if _, err := RenderAll(context.Background(), model.DefaultSprint(), opts, nil); err == nil {
		t.Fatal("day 9 accepted")
	}
}

func TestRenderAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderAll(ctx, model.DefaultSprint(), testOptions(t.TempDir()), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRenderAll_UnwritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(dir, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts := testOptions(dir)
	if _, err := RenderAll(context.Background(), model.DefaultSprint(), opts, nil); err == nil {
		t.Fatal("rendering into a regular file path succeeded")
	}
}

func TestRenderWithManifest_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	m, err := store.Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	s := model.DefaultSprint()
	opts := testOptions(dir)

	first, err := RenderWithManifest(context.Background(), s, opts, m, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Rendered != 5 || first.Skipped != 0 {
		t.Fatalf("first run rendered=%d skipped=%d", first.Rendered, first.Skipped)
	}

	second, err := RenderWithManifest(context.Background(), s, opts, m, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Rendered != 0 || second.Skipped != 5 {
		t.Fatalf("second run rendered=%d skipped=%d", second.Rendered, second.Skipped)
	}

	// Changing day 4's snapshot invalidates day 4 only; deleting day 1's
	// image forces it back.
	s.Snapshots[4] = []float64{10, 9, 7, 5, 3}
	if err := os.Remove(opts.Path(1)); err != nil {
		t.Fatal(err)
	}
	third, err := RenderWithManifest(context.Background(), s, opts, m, nil)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.Rendered != 2 || third.Skipped != 3 {
		t.Fatalf("third run rendered=%d skipped=%d, want 2/3", third.Rendered, third.Skipped)
	}
	if third.Artifacts[0].Skipped || third.Artifacts[3].Skipped || !third.Artifacts[2].Skipped {
		t.Fatalf("unexpected skip pattern: %+v", third.Artifacts)
	}

	runs, err := m.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
}

func TestRenderWithManifest_RestoresDamagedImage(t *testing.T) {
	dir := t.TempDir()
	m, err := store.Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	s := model.DefaultSprint()
	opts := testOptions(dir)

	if _, err := RenderWithManifest(context.Background(), s, opts, m, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	want, err := os.ReadFile(opts.Path(3))
	if err != nil {
		t.Fatal(err)
	}

	// Same length, different bytes.
	if err := os.WriteFile(opts.Path(3), make([]byte, len(want)), 0o644); err != nil {
		t.Fatal(err)
	}

	again, err := RenderWithManifest(context.Background(), s, opts, m, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Rendered != 1 || again.Skipped != 4 {
		t.Fatalf("second run rendered=%d skipped=%d, want 1/4", again.Rendered, again.Skipped)
	}
	if again.Artifacts[2].Skipped {
		t.Fatal("day 3 was skipped despite damaged content")
	}

	got, err := os.ReadFile(opts.Path(3))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("day 3 image was not restored")
	}
}

func TestWriteDay_ReturnsContentHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day2.png")
	size, sum, err := WriteDay(model.DefaultSprint(), 2, path, plot.DefaultOptions())
	if err != nil {
		t.Fatalf("WriteDay: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(data)) != size {
		t.Errorf("size = %d, file has %d bytes", size, len(data))
	}
	if sum != contentHash(data) {
		t.Errorf("hash = %s, want %s", sum, contentHash(data))
	}
}

func TestFingerprint(t *testing.T) {
	s := model.DefaultSprint()
	a, err := Fingerprint(s, 2, plot.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Fingerprint(s, 2, plot.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("zero options should fingerprint like the defaults")
	}
	c, err := Fingerprint(s, 2, plot.Options{Width: 1024, Height: 640})
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Fatal("image size must change the fingerprint")
	}
	d, err := Fingerprint(s, 3, plot.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a == d {
		t.Fatal("different days share a fingerprint")
	}
}
