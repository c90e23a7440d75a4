package components

import (
	"fmt"

	"github.com/theirongolddev/burndown/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// DayTabName returns the label shown for day in the day bar.
func DayTabName(day int) string {
	return fmt.Sprintf("Day %d", day)
}

// TabVisualWidth returns the rendered width of one day tab, padding included.
func TabVisualWidth(day int) int {
	return lipgloss.Width(DayTabName(day)) + 2
}

// RenderDayBar renders one tab per sprint day 1..days with active highlighted.
func RenderDayBar(days, active int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().Background(t.Surface)

	var out string
	for d := 1; d <= days; d++ {
		if d == active {
			out += activeStyle.Render(DayTabName(d))
		} else {
			out += inactiveStyle.Render(DayTabName(d))
		}
		if d < days {
			out += sepStyle.Render(" ")
		}
	}
	return out
}

// DayAtX returns the day whose tab covers column x, or 0 if none.
// Hitboxes use the same widths as RenderDayBar.
func DayAtX(days, x int) int {
	pos := 0
	for d := 1; d <= days; d++ {
		w := TabVisualWidth(d)
		if x >= pos && x < pos+w {
			return d
		}
		pos += w + 1 // separator
	}
	return 0
}
