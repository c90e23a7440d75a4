package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/burndown/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values, used for the compact
// layout where the full chart does not fit.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// Cell kinds for BurndownChart, in increasing draw priority.
const (
	cellEmpty = iota
	cellIdeal
	cellActual
	cellActualPoint
)

// BurndownChart plots the ideal and actual remaining-work lines on a
// character grid. X runs over day indices 0..totalDays, Y over 0..yMax.
func BurndownChart(ideal, actual []float64, totalDays int, yMax float64, width, height int) string {
	if totalDays < 1 || (len(ideal) == 0 && len(actual) == 0) {
		return ""
	}
	if yMax <= 0 {
		yMax = 1
	}

	t := theme.Active

	yLabelW := len(formatChartLabel(yMax)) + 1
	if yLabelW < 3 {
		yLabelW = 3
	}
	plotW := width - yLabelW - 1
	if plotW < totalDays+1 {
		plotW = totalDays + 1
	}
	if plotW < 10 {
		plotW = 10
	}
	plotH := height - 2 // x-axis line and day labels
	if plotH < 4 {
		plotH = 4
	}

	col := func(x float64) int {
		return int(math.Round(x / float64(totalDays) * float64(plotW-1)))
	}
	row := func(y float64) int {
		if y < 0 {
			y = 0
		}
		if y > yMax {
			y = yMax
		}
		return int(math.Round((1 - y/yMax) * float64(plotH-1)))
	}

	grid := make([][]int, plotH)
	for r := range grid {
		grid[r] = make([]int, plotW)
	}
	set := func(r, c, kind int) {
		if r < 0 || r >= plotH || c < 0 || c >= plotW {
			return
		}
		if kind > grid[r][c] {
			grid[r][c] = kind
		}
	}
	plotLine := func(values []float64, kind int) {
		for i := 1; i < len(values); i++ {
			c0, c1 := col(float64(i-1)), col(float64(i))
			for c := c0; c <= c1; c++ {
				frac := 0.0
				if c1 > c0 {
					frac = float64(c-c0) / float64(c1-c0)
				}
				set(row(values[i-1]+(values[i]-values[i-1])*frac), c, kind)
			}
		}
	}

	plotLine(ideal, cellIdeal)
	plotLine(actual, cellActual)
	for i, v := range actual {
		set(row(v), col(float64(i)), cellActualPoint)
	}

	// Y tick labels
	step := 2.0
	if yMax > 20 {
		step = chartTickStep(yMax)
	}
	tickLabels := make(map[int]string)
	for v := 0.0; v <= yMax+1e-9; v += step {
		tickLabels[row(v)] = formatChartLabel(v)
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	kindStyles := map[int]lipgloss.Style{
		cellIdeal:       lipgloss.NewStyle().Foreground(t.Ideal).Background(t.Surface),
		cellActual:      lipgloss.NewStyle().Foreground(t.Actual).Background(t.Surface),
		cellActualPoint: lipgloss.NewStyle().Foreground(t.Actual).Background(t.Surface).Bold(true),
	}
	glyphs := map[int]string{
		cellEmpty:       " ",
		cellIdeal:       "·",
		cellActual:      "•",
		cellActualPoint: "●",
	}

	var b strings.Builder
	for r := 0; r < plotH; r++ {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[r])))
		b.WriteString(axisStyle.Render("│"))

		// Render runs of the same cell kind with one style call.
		runStart := 0
		for c := 1; c <= plotW; c++ {
			if c < plotW && grid[r][c] == grid[r][runStart] {
				continue
			}
			kind := grid[r][runStart]
			text := strings.Repeat(glyphs[kind], c-runStart)
			if st, ok := kindStyles[kind]; ok {
				b.WriteString(st.Render(text))
			} else {
				b.WriteString(bg.Render(text))
			}
			runStart = c
		}
		b.WriteString("\n")
	}

	// X-axis line and day labels
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW)))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")

	labels := []byte(strings.Repeat(" ", plotW+1))
	lastEnd := -1
	for d := 0; d <= totalDays; d++ {
		lbl := strconv.Itoa(d)
		pos := col(float64(d)) + 1
		if pos <= lastEnd || pos+len(lbl) > len(labels) {
			continue
		}
		copy(labels[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(labels), " ")))

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e9:
		if v == math.Trunc(v/1e9)*1e9 {
			return fmt.Sprintf("%.0fB", v/1e9)
		}
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
