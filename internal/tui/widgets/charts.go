package widgets

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// BarPoint is one labelled bar.
type BarPoint struct {
	Label string
	Value float64
}

// BarChart draws vertical bars with labels along the bottom.
func BarChart(points []BarPoint, width, height int, color lipgloss.Color) string {
	if len(points) == 0 {
		return MutedStyle.Render("No data to chart.")
	}
	if width < len(points)*2 {
		width = len(points) * 2
	}
	if height < 4 {
		height = 4
	}
	style := lipgloss.NewStyle().Foreground(color)
	data := make([]barchart.BarData, 0, len(points))
	for _, p := range points {
		data = append(data, barchart.BarData{
			Label:  p.Label,
			Values: []barchart.BarValue{{Name: p.Label, Value: p.Value, Style: style}},
		})
	}
	bc := barchart.New(width, height)
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

// TimePoint is one sample of a time series.
type TimePoint struct {
	Time  time.Time
	Value float64
}

// LineChart draws a braille line over points, labelling the x axis with month names.
func LineChart(points []TimePoint, width, height int, color lipgloss.Color) string {
	if len(points) < 2 {
		return MutedStyle.Render("Not enough data to chart.")
	}
	if width < 20 {
		width = 20
	}
	if height < 6 {
		height = 6
	}
	start, end := points[0].Time, points[len(points)-1].Time
	maxVal := 0.0
	for _, p := range points {
		maxVal = math.Max(maxVal, p.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	yMax := maxVal * 1.1

	chart := tslc.New(width, height)
	chart.SetStyle(lipgloss.NewStyle().Foreground(color))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(ColorSurface2)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(ColorOverlay1)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, yMax)
	chart.SetViewYRange(0, yMax)
	chart.Model.XLabelFormatter = monthLabelFormatter()
	for _, p := range points {
		chart.Push(tslc.TimePoint{Time: p.Time, Value: p.Value})
	}
	chart.DrawBraille()
	return chart.View()
}

func monthLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		return time.Unix(int64(v), 0).UTC().Format("Jan")
	}
}

// Share is one slice of a whole, in percent.
type Share struct {
	Name    string
	Percent int
	Color   lipgloss.Color
}

// ShareBars renders horizontal percentage bars, one line per share.
func ShareBars(shares []Share, width int) string {
	if len(shares) == 0 {
		return MutedStyle.Render("No category data to display.")
	}
	nameW := 0
	for _, s := range shares {
		nameW = max(nameW, ansi.StringWidth(s.Name))
	}
	nameW += 2
	pctW := 5
	barW := width - nameW - pctW
	if barW < 1 {
		barW = 1
	}
	lines := make([]string, 0, len(shares))
	for _, s := range shares {
		filled := int(math.Round(float64(barW) * float64(s.Percent) / 100))
		filled = min(max(filled, 0), barW)
		color := s.Color
		if color == "" {
			color = ColorOverlay1
		}
		sty := lipgloss.NewStyle().Foreground(color)
		bar := sty.Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(ColorSurface1).Render(strings.Repeat("░", barW-filled))
		lines = append(lines, PadRight(sty.Render(s.Name), nameW)+bar+fmt.Sprintf("%*d%%", pctW-1, s.Percent))
	}
	return strings.Join(lines, "\n")
}
