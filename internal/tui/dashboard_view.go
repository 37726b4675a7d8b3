package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jask/etlstudio/internal/fixtures"
	"github.com/jask/etlstudio/internal/tui/widgets"
)

var dashboardSections = []string{"Analytics", "Data Quality", "Entity Relationships"}

type dashboardView struct {
	data    fixtures.Dashboard
	section int
}

func newDashboardView(d fixtures.Dashboard) *dashboardView {
	return &dashboardView{data: d}
}

func (v *dashboardView) Init() tea.Cmd { return nil }

func (v *dashboardView) Capturing() bool { return false }

func (v *dashboardView) Bindings() []key.Binding {
	return []key.Binding{keySubPrev, keySubNext}
}

func (v *dashboardView) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.KeyMsg); ok {
		v.section = cycleSection(m, v.section, len(dashboardSections))
	}
	return nil
}

// cycleSection applies the [ and ] keys to a sub-view index.
func cycleSection(m tea.KeyMsg, current, n int) int {
	switch {
	case key.Matches(m, keySubNext):
		return (current + 1) % n
	case key.Matches(m, keySubPrev):
		return (current + n - 1) % n
	}
	return current
}

var (
	subTabStyle       = lipgloss.NewStyle().Foreground(widgets.ColorSubtext0).Padding(0, 1)
	subTabActiveStyle = lipgloss.NewStyle().Foreground(widgets.ColorBase).Background(widgets.ColorLavender).Padding(0, 1)
)

func renderSubTabs(names []string, active int) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if i == active {
			parts[i] = subTabActiveStyle.Render(n)
		} else {
			parts[i] = subTabStyle.Render(n)
		}
	}
	return strings.Join(parts, " ")
}

func (v *dashboardView) Render(width, _ int) string {
	header := widgets.TitleStyle.Render(v.data.Title) + "\n" + widgets.SubtitleStyle.Render(v.data.Subtitle)

	cols := len(v.data.KPIs)
	if width < 100 {
		cols = 2
	}
	var kpiRows []string
	if cols > 0 {
		widths := widgets.Split(width, cols, 1)
		for i := 0; i < len(v.data.KPIs); i += cols {
			var cards []string
			for j := 0; j < cols && i+j < len(v.data.KPIs); j++ {
				k := v.data.KPIs[i+j]
				cards = append(cards, widgets.Card{Title: k.Metric, Value: k.Value, Change: k.Change, Status: k.Status}.Render(widths[j]))
			}
			kpiRows = append(kpiRows, widgets.Row(1, cards...))
		}
	}

	var body string
	switch v.section {
	case 0:
		body = v.renderAnalytics(width)
	case 1:
		body = v.renderQuality(width)
	default:
		body = v.renderEntities(width)
	}
	return widgets.Stack(header, strings.Join(kpiRows, "\n"), renderSubTabs(dashboardSections, v.section), body)
}

func (v *dashboardView) renderAnalytics(width int) string {
	half := widgets.Split(width, 2, 1)
	if width < 80 {
		half = []int{width, width}
	}

	bars := make([]widgets.BarPoint, len(v.data.Sales))
	for i, s := range v.data.Sales {
		bars[i] = widgets.BarPoint{Label: s.Month, Value: float64(s.Sales)}
	}
	sales := widgets.Pane{
		Title:   "Monthly Sales Trend",
		Content: widgets.BarChart(bars, half[0]-4, 10, widgets.ColorBlue),
	}.Render(half[0], 0)

	shares := make([]widgets.Share, len(v.data.Categories))
	for i, c := range v.data.Categories {
		shares[i] = widgets.Share{Name: c.Name, Percent: c.Share, Color: lipgloss.Color(c.Color)}
	}
	categories := widgets.Pane{
		Title:   "Product Categories",
		Content: widgets.ShareBars(shares, half[1]-4),
	}.Render(half[1], 0)

	var top string
	if width < 80 {
		top = sales + "\n" + categories
	} else {
		top = widgets.Row(1, sales, categories)
	}

	points := make([]widgets.TimePoint, len(v.data.Sales))
	base := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range v.data.Sales {
		points[i] = widgets.TimePoint{Time: base.AddDate(0, i, 0), Value: float64(s.Orders)}
	}
	orders := widgets.Pane{
		Title:   "Order Volume Trend",
		Content: widgets.LineChart(points, width-4, 10, widgets.ColorGreen),
	}.Render(width, 0)

	return top + "\n" + orders
}

func (v *dashboardView) renderQuality(width int) string {
	half := widgets.Split(width, 2, 1)
	stacked := width < 80
	if stacked {
		half = []int{width, width}
	}

	var resolved []string
	for _, r := range v.data.Resolved {
		label := widgets.PadRight(r.Label, max(1, half[0]-4-20))
		resolved = append(resolved, label+widgets.SuccessStyle.Render(fmt.Sprintf("%s %s", humanize.Comma(int64(r.Count)), r.Action)))
	}
	issues := widgets.Pane{Title: "Data Issues Resolved", Content: strings.Join(resolved, "\n")}.Render(half[0], 0)

	n := v.data.Normalization
	lines := []string{
		widgets.LabelStyle.Render("Before: ") + n.Before,
		widgets.LabelStyle.Render("After:  ") + n.After,
		"",
		widgets.ValueStyle.Render(n.Table),
	}
	for i, c := range n.Columns {
		branch := "├── "
		if i == len(n.Columns)-1 {
			branch = "└── "
		}
		lines = append(lines, widgets.MutedStyle.Render(branch)+c)
	}
	schema := widgets.Pane{Title: "Schema Normalization", Content: strings.Join(lines, "\n")}.Render(half[1], 0)

	if stacked {
		return issues + "\n" + schema
	}
	return widgets.Row(1, issues, schema)
}

func (v *dashboardView) renderEntities(width int) string {
	n := max(1, len(v.data.Entities))
	widths := widgets.Split(width-4, n, 2)
	boxes := make([]string, 0, n)
	for i, e := range v.data.Entities {
		content := widgets.ValueStyle.Render(humanize.Comma(int64(e.Records))+" records") + "\n" + widgets.MutedStyle.Render(e.Note)
		boxes = append(boxes, widgets.Pane{Title: e.Name, Content: content, Accent: widgets.ColorSapphire}.Render(widths[i], 0))
	}
	return widgets.Pane{Title: "Entity Relationship Mapping", Content: widgets.Row(2, boxes...)}.Render(width, 0)
}
