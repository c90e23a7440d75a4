// Package tui provides the interactive Bubble Tea preview for burndown.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/burndown/internal/cli"
	"github.com/theirongolddev/burndown/internal/model"
	"github.com/theirongolddev/burndown/internal/pipeline"
	"github.com/theirongolddev/burndown/internal/tui/components"
	"github.com/theirongolddev/burndown/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RenderedMsg is sent when a PNG render started from the preview finishes.
type RenderedMsg struct {
	Day   int
	Path  string
	Bytes int64
	Err   error
}

// App is the root Bubble Tea model for the preview.
type App struct {
	sprint model.Sprint
	opts   pipeline.Options

	day      int
	width    int
	height   int
	showHelp bool

	rendering bool
	spinner   spinner.Model
	status    string
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	compactHeight    = 20
	minChartHeight   = 6
)

// NewApp creates a preview positioned on the last day of the sprint.
func NewApp(s model.Sprint, opts pipeline.Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		sprint:  s,
		opts:    opts,
		day:     s.TotalDays,
		spinner: sp,
	}
}

// Day returns the day currently shown.
func (a App) Day() int {
	return a.day
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if a.showHelp {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if d := components.DayAtX(a.sprint.TotalDays, msg.X); d > 0 {
				a.setDay(d)
			}
		}
		return a, nil

	case spinner.TickMsg:
		if !a.rendering {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case RenderedMsg:
		a.rendering = false
		if msg.Err != nil {
			a.status = fmt.Sprintf("render failed: %s", msg.Err)
		} else {
			a.status = fmt.Sprintf("wrote %s (%s bytes)", msg.Path, cli.FormatNumber(msg.Bytes))
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return a, tea.Quit
		}
		if key.Matches(msg, keys.Help) {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch {
		case key.Matches(msg, keys.Prev):
			a.setDay(a.day - 1)
		case key.Matches(msg, keys.Next):
			a.setDay(a.day + 1)
		case key.Matches(msg, keys.First):
			a.setDay(1)
		case key.Matches(msg, keys.Last):
			a.setDay(a.sprint.TotalDays)
		case key.Matches(msg, keys.Render):
			if a.rendering {
				return a, nil
			}
			a.rendering = true
			a.status = ""
			return a, tea.Batch(a.spinner.Tick, renderDayCmd(a.sprint, a.day, a.opts))
		}
		return a, nil
	}

	return a, nil
}

func (a *App) setDay(d int) {
	if d < 1 {
		d = 1
	}
	if d > a.sprint.TotalDays {
		d = a.sprint.TotalDays
	}
	if d != a.day {
		a.status = ""
	}
	a.day = d
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  burndown preview needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, k := range keys.all() {
		h := k.Help()
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-6s", h.Key)))
		b.WriteString(descStyle.Render(h.Desc))
		b.WriteString("\n")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(strings.TrimRight(b.String(), "\n"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: day tabs
	header := components.RenderDayBar(a.sprint.TotalDays, a.day)

	// 2. Status bar
	status := a.status
	if a.rendering {
		status = a.spinner.View() + " rendering " + a.opts.Path(a.day)
	}
	statusBar := components.RenderStatusBar(w, "←/→ day  r render  ? help  q quit", status)

	// 3. Content
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minChartHeight {
		contentH = minChartHeight
	}
	content := a.renderDay(cw, contentH)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// renderDay lays out the metric cards, completion bar and chart for the
// current day within cw x ch cells.
func (a App) renderDay(cw, ch int) string {
	t := theme.Active

	st, ok := a.sprint.Stats(a.day)
	if !ok {
		return fmt.Sprintf("  No snapshot for day %d", a.day)
	}

	varianceNote := "on track"
	switch {
	case st.Variance > 0.05:
		varianceNote = "behind"
	case st.Variance < -0.05:
		varianceNote = "ahead"
	}

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Remaining", Value: cli.FormatTasks(st.ActualRemaining), Note: fmt.Sprintf("of %d tasks", a.sprint.TotalTasks)},
		{Label: "Ideal", Value: cli.FormatTasks(st.IdealRemaining), Note: fmt.Sprintf("day %d of %d", a.day, a.sprint.TotalDays)},
		{Label: "Variance", Value: cli.FormatVariance(st.Variance), Note: varianceNote, NoteColor: components.ColorForVariance(st.Variance)},
	}, cw)

	bar := components.CompletionBar("Complete", st.PercentComplete, st.Variance, 9, cw-20)

	ideal := a.sprint.IdealThrough(a.day)
	actual := a.sprint.Actual(a.day)

	chartH := ch - lipgloss.Height(cards) - lipgloss.Height(bar) - 4
	var body string
	if ch < compactHeight || chartH < minChartHeight {
		body = lipgloss.NewStyle().Foreground(t.TextMuted).Render("actual ") +
			components.Sparkline(actual, t.Actual) +
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("  ideal ") +
			components.Sparkline(ideal, t.Ideal)
	} else {
		yMax := float64(a.sprint.TotalTasks)
		for _, v := range actual {
			if v > yMax {
				yMax = v
			}
		}
		body = components.BurndownChart(ideal, actual, a.sprint.TotalDays, yMax,
			components.CardInnerWidth(cw), chartH)
	}
	legend := lipgloss.NewStyle().Foreground(t.Ideal).Render("··· Ideal") + "   " +
		lipgloss.NewStyle().Foreground(t.Actual).Render("─●─ Actual")

	chartCard := components.ContentCard(
		fmt.Sprintf("Sprint Burn-Down - Day %d", a.day),
		body+"\n"+legend,
		cw,
	)

	return lipgloss.JoinVertical(lipgloss.Left, cards, " "+bar, chartCard)
}

// renderDayCmd writes the PNG for day off the UI goroutine.
func renderDayCmd(s model.Sprint, day int, opts pipeline.Options) tea.Cmd {
	opts.Day = day
	return func() tea.Msg {
		msg := RenderedMsg{Day: day, Path: opts.Path(day)}
		result, err := pipeline.RenderAll(context.Background(), s, opts, nil)
		if err != nil {
			msg.Err = err
			return msg
		}
		if len(result.Artifacts) > 0 {
			msg.Bytes = result.Artifacts[0].Bytes
		}
		return msg
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
