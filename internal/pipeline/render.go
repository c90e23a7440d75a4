// Package pipeline runs the day-by-day burn-down render loop.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/model"
	"github.com/theirongolddev/burndown/internal/plot"
)

// Options controls where images go and which days are rendered.
type Options struct {
	Dir     string
	Pattern string
	Day     int // 0 renders every day
	Plot    plot.Options
}

// OptionsFromConfig builds render options from the output section.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Dir:     cfg.Output.Dir,
		Pattern: cfg.Output.Pattern,
		Plot:    plot.Options{Width: cfg.Output.Width, Height: cfg.Output.Height},
	}
}

// RenderResult holds the output of one render run.
type RenderResult struct {
	Artifacts []model.Artifact
	Rendered  int
	Skipped   int
}

// ProgressFunc is called after each day is handled.
// current is the number of days done so far, total is the number to do.
type ProgressFunc func(current, total int)

// Path returns the image path for day.
func (o Options) Path(day int) string {
	pattern := o.Pattern
	if pattern == "" {
		pattern = config.DefaultPattern
	}
	return filepath.Join(o.Dir, plot.FileName(pattern, day))
}

// DaysToRender returns the day numbers a run covers, in order.
func DaysToRender(s model.Sprint, day int) ([]int, error) {
	if day != 0 {
		if day < 1 || day > s.TotalDays {
			return nil, fmt.Errorf("day %d outside sprint range 1..%d", day, s.TotalDays)
		}
		return []int{day}, nil
	}
	days := make([]int, 0, s.TotalDays)
	for d := 1; d <= s.TotalDays; d++ {
		days = append(days, d)
	}
	return days, nil
}

// RenderAll writes one chart per day, sequentially. The first failure stops
// the run.
func RenderAll(ctx context.Context, s model.Sprint, opts Options, progressFn ProgressFunc) (*RenderResult, error) {
	days, err := DaysToRender(s, opts.Day)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(opts.Dir); err != nil {
		return nil, err
	}

	result := &RenderResult{}
	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := opts.Path(day)
		size, sum, err := WriteDay(s, day, path, opts.Plot)
		if err != nil {
			return result, err
		}
		result.Artifacts = append(result.Artifacts, model.Artifact{
			Day:         day,
			Path:        path,
			Bytes:       size,
			ContentHash: sum,
			RenderedAt:  time.Now(),
		})
		result.Rendered++

		if progressFn != nil {
			progressFn(i+1, len(days))
		}
	}
	return result, nil
}

// WriteDay renders day and writes it to path, replacing any existing file.
// It returns the number of bytes written and their SHA-256 in hex.
func WriteDay(s model.Sprint, day int, path string, opts plot.Options) (int64, string, error) {
	var buf bytes.Buffer
	if err := plot.Render(&buf, s, day, opts); err != nil {
		return 0, "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // images are meant to be world-readable
		return 0, "", fmt.Errorf("writing %s: %w", path, err)
	}
	return int64(buf.Len()), contentHash(buf.Bytes()), nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return nil
}
