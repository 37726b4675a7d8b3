package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jask/etlstudio/internal/pipeline"
	"github.com/jask/etlstudio/internal/tui/widgets"
)

type pipelineView struct {
	runner   *pipeline.Runner
	spinner  spinner.Model
	progress progress.Model
}

func newPipelineView(r *pipeline.Runner) *pipelineView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(widgets.ColorBlue)
	return &pipelineView{
		runner:   r,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (v *pipelineView) Init() tea.Cmd { return nil }

func (v *pipelineView) Capturing() bool { return false }

func (v *pipelineView) Bindings() []key.Binding {
	if v.runner.Snapshot().Finished() {
		return []key.Binding{keyStart, keyOpenDB, keyOpenDash}
	}
	return []key.Binding{keyStart}
}

// stepTick schedules completion of the running step after delay.
func stepTick(runID string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg { return stepTickMsg{runID: runID} })
}

func (v *pipelineView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(m, keyStart):
			runID, ok := v.runner.Start()
			if !ok {
				return nil
			}
			if !v.runner.Running() {
				return func() tea.Msg { return pipelineFinishedMsg{runID: runID} }
			}
			return tea.Batch(stepTick(runID, v.runner.Delay()), v.spinner.Tick)
		case key.Matches(m, keyOpenDB):
			if v.runner.Snapshot().Finished() {
				return switchTab(TabDatabase)
			}
		case key.Matches(m, keyOpenDash):
			if v.runner.Snapshot().Finished() {
				return switchTab(TabDashboard)
			}
		}
	case stepTickMsg:
		if v.runner.Advance(m.runID) {
			return stepTick(m.runID, v.runner.Delay())
		}
		if snap := v.runner.Snapshot(); snap.RunID == m.runID && snap.Finished() {
			return tea.Batch(
				func() tea.Msg { return pipelineFinishedMsg{runID: m.runID} },
				notifyText("Pipeline completed successfully", false),
			)
		}
	case spinner.TickMsg:
		if !v.runner.Running() {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(m)
		return cmd
	}
	return nil
}

func (v *pipelineView) Render(width, _ int) string {
	snap := v.runner.Snapshot()

	header := widgets.TitleStyle.Render("ETL Pipeline Execution") + "\n" +
		widgets.SubtitleStyle.Render("Transform messy data into clean, normalized database records")

	inner := max(10, width-4)
	v.progress.Width = max(10, inner-8)
	label := "Start Pipeline"
	if snap.Running {
		label = "Running..."
	}
	statusLines := []string{
		widgets.Button("s", label, snap.Running),
		"",
		widgets.LabelStyle.Render("Overall Progress") + "  " + widgets.ValueStyle.Render(fmt.Sprintf("%d%%", int(snap.Progress+0.5))),
		v.progress.ViewAs(snap.Progress / 100),
		"",
	}
	for i, st := range snap.Steps {
		if i > 0 {
			statusLines = append(statusLines, "")
		}
		statusLines = append(statusLines, v.renderStep(st, inner)...)
	}
	status := widgets.Pane{Title: "Pipeline Status", Content: strings.Join(statusLines, "\n")}.Render(width, 0)

	var banner string
	if snap.Finished() {
		banner = widgets.Pane{
			Title:  "Done",
			Accent: widgets.ColorSuccess,
			Content: strings.Join([]string{
				widgets.SuccessStyle.Bold(true).Render("Pipeline Completed Successfully!"),
				"Your data has been cleaned and loaded into the database.",
				"",
				widgets.Button("d", "View Database Schema", false) + "   " + widgets.Button("b", "Open Dashboard", false),
			}, "\n"),
		}.Render(width, 0)
	}
	return widgets.Stack(header, status, banner)
}

func (v *pipelineView) renderStep(st pipeline.Step, width int) []string {
	badge := widgets.Badge(string(st.Status), widgets.StatusColor(string(st.Status)))
	name := widgets.PadRight(statusIcon(st.Status, v.spinner.View())+" "+lipgloss.NewStyle().Foreground(widgets.ColorText).Bold(true).Render(st.Name), max(1, width-lipgloss.Width(badge)))
	lines := []string{
		name + badge,
		"  " + widgets.MutedStyle.Render(st.Description),
	}
	if st.Status == pipeline.StatusCompleted && st.Duration != nil && st.RecordsProcessed != nil && st.IssuesFound != nil {
		lines = append(lines, "  "+
			widgets.LabelStyle.Render("Duration: ")+widgets.ValueStyle.Render(fmt.Sprintf("%dms", st.Duration.Milliseconds()))+"  "+
			widgets.LabelStyle.Render("Records: ")+widgets.ValueStyle.Render(humanize.Comma(int64(*st.RecordsProcessed)))+"  "+
			widgets.LabelStyle.Render("Issues Fixed: ")+widgets.ValueStyle.Render(fmt.Sprint(*st.IssuesFound)))
	}
	return lines
}

func statusIcon(s pipeline.Status, spin string) string {
	switch s {
	case pipeline.StatusCompleted:
		return widgets.SuccessStyle.Render("✔")
	case pipeline.StatusRunning:
		return spin
	case pipeline.StatusError:
		return widgets.ErrorStyle.Render("✖")
	default:
		return widgets.MutedStyle.Render("○")
	}
}
