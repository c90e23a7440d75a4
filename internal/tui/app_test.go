package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/model"
	"github.com/theirongolddev/burndown/internal/pipeline"
	"github.com/theirongolddev/burndown/internal/plot"
	"github.com/theirongolddev/burndown/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	opts := pipeline.Options{Dir: t.TempDir(), Pattern: config.DefaultPattern, Plot: plot.DefaultOptions()}
	a := NewApp(model.DefaultSprint(), opts)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

func press(a App, msg tea.KeyMsg) App {
	m, _ := a.Update(msg)
	return m.(App)
}

func TestDayNavigation(t *testing.T) {
	a := newTestApp(t)
	if a.Day() != 5 {
		t.Fatalf("initial day = %d, want 5", a.Day())
	}

	a = press(a, tea.KeyMsg{Type: tea.KeyRight})
	if a.Day() != 5 {
		t.Fatalf("day after right at end = %d, want 5", a.Day())
	}

	a = press(a, tea.KeyMsg{Type: tea.KeyLeft})
	a = press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if a.Day() != 3 {
		t.Fatalf("day = %d, want 3", a.Day())
	}

	a = press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if a.Day() != 1 {
		t.Fatalf("day after g = %d, want 1", a.Day())
	}
	a = press(a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.Day() != 1 {
		t.Fatalf("day after left at start = %d, want 1", a.Day())
	}

	a = press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if a.Day() != 5 {
		t.Fatalf("day after G = %d, want 5", a.Day())
	}
}

func TestMouseSelectsDay(t *testing.T) {
	a := newTestApp(t)

	// Midpoint of the second tab.
	x := components.TabVisualWidth(1) + 1 + components.TabVisualWidth(2)/2
	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.(App).Day(); got != 2 {
		t.Fatalf("day after click = %d, want 2", got)
	}
}

func TestViewShowsDay(t *testing.T) {
	a := newTestApp(t)
	a = press(a, tea.KeyMsg{Type: tea.KeyLeft})

	view := a.View()
	if !strings.Contains(view, "Sprint Burn-Down - Day 4") {
		t.Fatalf("view missing day 4 title:\n%s", view)
	}
	if !strings.Contains(view, "Remaining") {
		t.Fatal("view missing metric cards")
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := NewApp(model.DefaultSprint(), pipeline.Options{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(m.(App).View(), "too narrow") {
		t.Fatal("narrow terminal not reported")
	}
}

func TestRenderDayCmd(t *testing.T) {
	dir := t.TempDir()
	opts := pipeline.Options{Dir: dir, Pattern: config.DefaultPattern, Plot: plot.DefaultOptions()}

	msg := renderDayCmd(model.DefaultSprint(), 2, opts)()
	rm, ok := msg.(RenderedMsg)
	if !ok {
		t.Fatalf("msg = %T, want RenderedMsg", msg)
	}
	if rm.Err != nil {
		t.Fatalf("render: %v", rm.Err)
	}
	if rm.Path != filepath.Join(dir, "sprint_burndown_day2.png") {
		t.Fatalf("path = %q", rm.Path)
	}
	info, err := os.Stat(rm.Path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != rm.Bytes {
		t.Fatalf("size = %d, msg says %d", info.Size(), rm.Bytes)
	}

	// Only the requested day is written.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("files = %d, want 1", len(entries))
	}

	a := newTestApp(t)
	a.rendering = true
	m, _ := a.Update(rm)
	if got := m.(App); got.rendering || !strings.Contains(got.status, "wrote") {
		t.Fatalf("after RenderedMsg: rendering=%v status=%q", got.rendering, got.status)
	}
}
