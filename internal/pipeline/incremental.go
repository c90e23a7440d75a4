package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/burndown/internal/model"
	"github.com/theirongolddev/burndown/internal/plot"
	"github.com/theirongolddev/burndown/internal/store"

	"github.com/mitchellh/hashstructure/v2"
)

// fingerprintVersion changes whenever chart styling changes, so images
// rendered by an older build are redrawn.
const fingerprintVersion = 1

// CachedRenderResult extends RenderResult with manifest metadata.
type CachedRenderResult struct {
	RenderResult
	RunID string
}

type dayInputs struct {
	Version    int
	TotalDays  int
	TotalTasks int
	Day        int
	Ideal      []float64
	Actual     []float64
	Width      int
	Height     int
}

// Fingerprint hashes everything that affects the image for day.
func Fingerprint(s model.Sprint, day int, opts plot.Options) (uint64, error) {
	series, err := plot.SeriesFor(s, day)
	if err != nil {
		return 0, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = plot.DefaultOptions()
	}
	return hashstructure.Hash(dayInputs{
		Version:    fingerprintVersion,
		TotalDays:  s.TotalDays,
		TotalTasks: s.TotalTasks,
		Day:        day,
		Ideal:      series.Ideal,
		Actual:     series.Actual,
		Width:      opts.Width,
		Height:     opts.Height,
	}, hashstructure.FormatV2, nil)
}

// RenderWithManifest renders each day like RenderAll but skips images whose
// inputs match the manifest and whose bytes on disk still hash to the recorded
// content hash.
func RenderWithManifest(ctx context.Context, s model.Sprint, opts Options, m *store.Manifest, progressFn ProgressFunc) (*CachedRenderResult, error) {
	days, err := DaysToRender(s, opts.Day)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(opts.Dir); err != nil {
		return nil, err
	}

	runID, err := m.BeginRun(opts.Dir, len(days))
	if err != nil {
		return nil, err
	}

	result := &CachedRenderResult{RunID: runID}
	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := opts.Path(day)
		fp, err := Fingerprint(s, day, opts.Plot)
		if err != nil {
			return result, err
		}

		if entry, ok := upToDate(m, path, fp); ok {
			result.Artifacts = append(result.Artifacts, model.Artifact{
				Day:         day,
				Path:        path,
				Fingerprint: fp,
				Bytes:       entry.SizeBytes,
				ContentHash: entry.ContentHash,
				RenderedAt:  entry.RenderedAt,
				Skipped:     true,
			})
			result.Skipped++
		} else {
			size, sum, err := WriteDay(s, day, path, opts.Plot)
			if err != nil {
				return result, err
			}
			now := time.Now()
			err = m.RecordArtifact(store.Entry{
				Path:        manifestKey(path),
				Day:         day,
				Fingerprint: fp,
				SizeBytes:   size,
				ContentHash: sum,
				RunID:       runID,
				RenderedAt:  now,
			})
			if err != nil {
				return result, fmt.Errorf("recording day %d: %w", day, err)
			}
			result.Artifacts = append(result.Artifacts, model.Artifact{
				Day:         day,
				Path:        path,
				Fingerprint: fp,
				Bytes:       size,
				ContentHash: sum,
				RenderedAt:  now,
			})
			result.Rendered++
		}

		if progressFn != nil {
			progressFn(i+1, len(days))
		}
	}

	if err := m.FinishRun(runID, result.Rendered, result.Skipped); err != nil {
		return result, fmt.Errorf("finishing run: %w", err)
	}
	return result, nil
}

func upToDate(m *store.Manifest, path string, fp uint64) (store.Entry, bool) {
	entry, ok, err := m.Lookup(manifestKey(path))
	if err != nil || !ok || entry.Fingerprint != fp {
		return store.Entry{}, false
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() != entry.SizeBytes {
		return store.Entry{}, false
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the render options
	if err != nil || contentHash(data) != entry.ContentHash {
		return store.Entry{}, false
	}
	return entry, true
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// manifestKey makes the path absolute so runs from different working
// directories don't collide.
func manifestKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "burndown")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "burndown")
}

// ManifestPath returns the full path to the manifest database.
func ManifestPath() string {
	return filepath.Join(CacheDir(), "manifest.db")
}
