package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jask/etlstudio/internal/config"
	"github.com/jask/etlstudio/internal/intake"
	"github.com/jask/etlstudio/internal/logging"
	"github.com/jask/etlstudio/internal/service"
	"github.com/jask/etlstudio/internal/tui/widgets"
)

type ingestionView struct {
	ctx      context.Context
	logger   *slog.Logger
	order    string
	store    *intake.Store
	loader   *intake.Loader
	analysis *service.AnalysisService
	delay    time.Duration
	input    textinput.Model
	pending  int
}

func newIngestionView(ctx context.Context, deps Deps) *ingestionView {
	ti := textinput.New()
	ti.Placeholder = "paths, directories or globs (e.g. data/*.json orders.csv)"
	ti.Prompt = "› "
	ti.CharLimit = 1024
	order := deps.Config.Ingest.Order
	if order == "" {
		order = config.OrderCompletion
	}
	return &ingestionView{
		ctx:      ctx,
		logger:   logging.WithComponent(deps.Logger, "ingestion"),
		order:    order,
		store:    deps.Store,
		loader:   deps.Loader,
		analysis: deps.Analysis,
		delay:    service.AnalysisDelay,
		input:    ti,
	}
}

func (v *ingestionView) Init() tea.Cmd { return nil }

func (v *ingestionView) Capturing() bool { return v.input.Focused() }

func (v *ingestionView) Bindings() []key.Binding {
	if v.input.Focused() {
		return []key.Binding{keySubmit, keyCancel}
	}
	if v.store.Len() == 0 {
		return []key.Binding{keySelect}
	}
	return []key.Binding{keySelect, keyAnalyze, keyViewDash}
}

func (v *ingestionView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if v.input.Focused() {
			return v.updateInput(m)
		}
		switch {
		case key.Matches(m, keySelect):
			return v.input.Focus()
		case key.Matches(m, keyAnalyze):
			return v.runAnalysis()
		case key.Matches(m, keyViewDash):
			if v.store.Len() > 0 {
				return switchTab(TabDashboard)
			}
		}
	case fileLoadedMsg:
		v.pending--
		return notify(v.store.Accept(m.result)...)
	case filesLoadedMsg:
		v.pending -= len(m.results)
		return notify(v.store.Accept(m.results...)...)
	case analysisDoneMsg:
		text := v.analysis.Finish()
		v.logger.Info("analysis completed", "files", v.store.Len())
		return notifyText(text, false)
	}
	return nil
}

func (v *ingestionView) updateInput(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, keyCancel):
		v.input.Blur()
		return nil
	case m.Type == tea.KeyEnter:
		value := v.input.Value()
		v.input.Blur()
		v.input.SetValue("")
		return v.submit(value)
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(m)
	return cmd
}

// submit expands the selection and schedules reads in the configured order.
func (v *ingestionView) submit(value string) tea.Cmd {
	patterns := intake.ParseSelection(value)
	if len(patterns) == 0 {
		return nil
	}
	paths, err := intake.Expand(patterns)
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	if len(paths) == 0 {
		return notifyText("No .json or .csv files matched", true)
	}
	v.pending += len(paths)
	v.logger.Info("files selected", "count", len(paths), "order", v.order)

	if v.order == config.OrderSelection {
		ctx, loader := v.ctx, v.loader
		return func() tea.Msg {
			return filesLoadedMsg{results: loader.LoadAll(ctx, paths)}
		}
	}
	cmds := make([]tea.Cmd, 0, len(paths))
	for _, p := range paths {
		cmds = append(cmds, func() tea.Msg {
			return fileLoadedMsg{result: v.loader.Load(v.ctx, p)}
		})
	}
	return tea.Batch(cmds...)
}

func (v *ingestionView) runAnalysis() tea.Cmd {
	if v.store.Len() == 0 || !v.analysis.Begin() {
		return nil
	}
	return tea.Tick(v.delay, func(time.Time) tea.Msg { return analysisDoneMsg{} })
}

func (v *ingestionView) Render(width, _ int) string {
	header := widgets.TitleStyle.Render("Data Ingestion & Quality Assessment") + "\n" +
		widgets.SubtitleStyle.Render("Upload your messy datasets and let's discover the data quality issues")

	v.input.Width = max(10, width-8)
	uploadLines := []string{
		"Upload Customer, Order, Product, or Reconciliation datasets",
		widgets.MutedStyle.Render("Supports JSON and CSV files"),
		"",
	}
	if v.input.Focused() {
		uploadLines = append(uploadLines, v.input.View())
	} else {
		uploadLines = append(uploadLines, widgets.Button("o", "Choose Files", false))
	}
	if v.pending > 0 {
		uploadLines = append(uploadLines, widgets.MutedStyle.Render(fmt.Sprintf("reading %d file(s)...", v.pending)))
	}
	upload := widgets.Pane{Title: "Upload Data Files", Content: strings.Join(uploadLines, "\n"), Active: v.input.Focused()}.Render(width, 0)

	files := v.store.List()
	if len(files) == 0 {
		return widgets.Stack(header, upload)
	}

	cols := 2
	if width < 80 {
		cols = 1
	}
	widths := widgets.Split(width, cols, 1)
	var rows []string
	for i := 0; i < len(files); i += cols {
		var cells []string
		for j := 0; j < cols && i+j < len(files); j++ {
			cells = append(cells, renderFileCard(files[i+j], widths[j]))
		}
		rows = append(rows, widgets.Row(1, cells...))
	}

	label := "Run Full Analysis"
	if v.analysis.Running() {
		label = "Analyzing..."
	}
	actions := widgets.Button("r", label, v.analysis.Running()) + "   " + widgets.Button("v", "View Dashboard", false)

	return widgets.Stack(header, upload, strings.Join(rows, "\n"), actions)
}

func renderFileCard(f intake.UploadedFile, width int) string {
	lines := []string{
		widgets.LabelStyle.Render("Size: ") + humanize.Bytes(uint64(f.Size)) +
			widgets.LabelStyle.Render("  Type: ") + f.MIMEType,
	}
	if f.Kind == intake.KindCSV {
		lines = append(lines, widgets.LabelStyle.Render("Rows: ")+humanize.Comma(int64(f.Rows)))
	}
	if f.Issues != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(widgets.ColorWarning).Render("Data Quality Issues:"))
		for _, issue := range f.Issues {
			lines = append(lines, "  • "+issue)
		}
	}
	return widgets.Pane{Title: f.Name, Content: strings.Join(lines, "\n")}.Render(width, 0)
}
