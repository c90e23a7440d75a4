// Package plot builds burn-down charts with go-chart and encodes them as PNG.
package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/theirongolddev/burndown/internal/model"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// IdealName and ActualName label the two plotted series in the legend.
	IdealName  = "Ideal"
	ActualName = "Actual"

	xAxisName = "Day"
	yAxisName = "Remaining Tasks"
)

var (
	idealColor  = drawing.ColorFromHex("808080")
	actualColor = chart.ColorBlue
	gridColor   = drawing.ColorFromHex("DDDDDD")
)

// Options controls image geometry.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions matches an 8x5 inch figure at 100 dpi.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 500}
}

// Series is the data handed to the chart for one day.
type Series struct {
	Day    int
	Days   []float64
	Ideal  []float64
	Actual []float64
}

// FileName returns the image name for day using a printf-style pattern.
func FileName(pattern string, day int) string {
	return fmt.Sprintf(pattern, day)
}

// Title returns the chart title for day.
func Title(day int) string {
	return fmt.Sprintf("Sprint Burn-Down Chart - Day %d", day)
}

// SeriesFor returns the ideal and actual points for day, both truncated to
// day+1 points.
func SeriesFor(s model.Sprint, day int) (Series, error) {
	if day < 1 || day > s.TotalDays {
		return Series{}, fmt.Errorf("day %d outside sprint range 1..%d", day, s.TotalDays)
	}
	actual := s.Actual(day)
	if len(actual) != day+1 {
		return Series{}, fmt.Errorf("snapshot for day %d has %d points, want %d", day, len(actual), day+1)
	}
	return Series{
		Day:    day,
		Days:   s.Days(day),
		Ideal:  s.IdealThrough(day),
		Actual: actual,
	}, nil
}

// Build assembles the go-chart definition for day.
func Build(s model.Sprint, day int, opts Options) (chart.Chart, error) {
	series, err := SeriesFor(s, day)
	if err != nil {
		return chart.Chart{}, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	yMax := float64(s.TotalTasks)
	for _, v := range series.Actual {
		if v > yMax {
			yMax = v
		}
	}

	gridStyle := chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0}

	ch := chart.Chart{
		Title:  Title(day),
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           xAxisName,
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(s.TotalDays)},
			Ticks:          XTicks(s.TotalDays),
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           yAxisName,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:          YTicks(s.TotalTasks),
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    IdealName,
				XValues: series.Days,
				YValues: series.Ideal,
				Style: chart.Style{
					StrokeColor:     idealColor,
					StrokeWidth:     2,
					StrokeDashArray: []float64{6.0, 4.0},
				},
			},
			chart.ContinuousSeries{
				Name:    ActualName,
				XValues: series.Days,
				YValues: series.Actual,
				Style: chart.Style{
					StrokeColor: actualColor,
					StrokeWidth: 2,
					DotColor:    actualColor,
					DotWidth:    4,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch, nil
}

// Render writes the PNG chart for day to w.
func Render(w io.Writer, s model.Sprint, day int, opts Options) error {
	ch, err := Build(s, day, opts)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering day %d: %w", day, err)
	}
	return nil
}

// XTicks returns one tick per day index 0..totalDays.
func XTicks(totalDays int) []chart.Tick {
	ticks := make([]chart.Tick, 0, totalDays+1)
	for d := 0; d <= totalDays; d++ {
		ticks = append(ticks, chart.Tick{Value: float64(d), Label: fmt.Sprintf("%d", d)})
	}
	return ticks
}

// YTicks returns ticks from 0 to totalTasks in steps of 2. Large sprints use a
// wider step so the axis stays readable.
func YTicks(totalTasks int) []chart.Tick {
	step := 2
	if totalTasks > 20 {
		step = int(math.Ceil(float64(totalTasks)/10/5) * 5)
	}
	ticks := make([]chart.Tick, 0, totalTasks/step+1)
	for v := 0; v <= totalTasks; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	return ticks
}
