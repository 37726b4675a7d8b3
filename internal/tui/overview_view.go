package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/etlstudio/internal/fixtures"
	"github.com/jask/etlstudio/internal/tui/widgets"
)

type overviewView struct {
	data fixtures.Overview
}

func newOverviewView(o fixtures.Overview) *overviewView { return &overviewView{data: o} }

func (v *overviewView) Init() tea.Cmd { return nil }

func (v *overviewView) Capturing() bool { return false }

func (v *overviewView) Bindings() []key.Binding { return []key.Binding{keyIngest} }

func (v *overviewView) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.KeyMsg); ok && key.Matches(m, keyIngest) {
		return switchTab(TabIngestion)
	}
	return nil
}

func phaseBadge(status string) string {
	switch status {
	case "ready":
		return widgets.Badge("Ready to Implement", widgets.StatusColor(status))
	case "bonus":
		return widgets.Badge("Bonus Challenge", widgets.StatusColor(status))
	default:
		return widgets.Badge(status, widgets.StatusColor(status))
	}
}

func bullets(items []string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("•")
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = dot + " " + it
	}
	return strings.Join(lines, "\n")
}

func (v *overviewView) Render(width, _ int) string {
	d := v.data
	wrap := lipgloss.NewStyle().Width(max(10, width-4))
	hero := lipgloss.NewStyle().Foreground(widgets.ColorLavender).Bold(true).Render(d.Title)

	half := widgets.Split(width-4, 2, 2)
	if width < 80 {
		half = []int{width - 4, width - 4}
	}
	issues := widgets.Pane{Title: "Data Quality Issues", Content: bullets(d.QualityIssues, widgets.ColorRed)}.Render(half[0], 0)
	goals := widgets.Pane{Title: "Technical Goals", Content: bullets(d.Goals, widgets.ColorGreen)}.Render(half[1], 0)
	columns := widgets.Row(2, issues, goals)
	if width < 80 {
		columns = issues + "\n" + goals
	}
	challenge := widgets.Pane{
		Title:   "The Challenge",
		Content: wrap.Render(d.Challenge) + "\n\n" + columns,
	}.Render(width, 0)

	phaseW := widgets.Split(width, 2, 1)
	if width < 80 {
		phaseW = []int{width, width}
	}
	cards := make([]string, 0, len(d.Phases))
	for i, p := range d.Phases {
		w := phaseW[i%2]
		content := phaseBadge(p.Status) + "\n" +
			lipgloss.NewStyle().Width(max(10, w-4)).Render(widgets.MutedStyle.Render(p.Description)) + "\n\n" +
			widgets.LabelStyle.Render("Deliverables") + "\n" +
			bullets(p.Deliverables, widgets.ColorBlue)
		cards = append(cards, widgets.Pane{Title: p.Phase + ": " + p.Title, Content: content}.Render(w, 0))
	}
	var phaseRows []string
	if width < 80 {
		phaseRows = cards
	} else {
		for i := 0; i < len(cards); i += 2 {
			phaseRows = append(phaseRows, widgets.Row(1, cards[i:min(i+2, len(cards))]...))
		}
	}
	phases := widgets.TitleStyle.Render("Implementation Phases") + "\n" + strings.Join(phaseRows, "\n")

	dsLines := make([]string, 0, len(d.Datasets))
	for _, ds := range d.Datasets {
		dsLines = append(dsLines,
			widgets.PadRight(lipgloss.NewStyle().Foreground(widgets.ColorText).Bold(true).Render(ds.Name), 26)+
				widgets.PadRight(widgets.ValueStyle.Render(ds.Format), 6)+
				widgets.PadRight(widgets.MutedStyle.Render(ds.Issues), 24)+
				widgets.Badge(ds.Status, datasetColor(ds.Status)))
	}
	datasets := widgets.Pane{Title: "Available Datasets", Content: strings.Join(dsLines, "\n")}.Render(width, 0)

	start := widgets.Pane{
		Title:   "Ready to Start?",
		Content: wrap.Render(d.GettingStarted) + "\n\n" + widgets.Button("i", "Start with Data Ingestion", false),
		Accent:  widgets.ColorAccent,
	}.Render(width, 0)

	return widgets.Stack(hero, challenge, phases, datasets, start)
}

func datasetColor(status string) lipgloss.Color {
	if strings.Contains(strings.ToLower(status), "bonus") {
		return widgets.ColorMauve
	}
	return widgets.ColorSurface2
}
