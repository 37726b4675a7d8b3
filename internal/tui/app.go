package tui

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/etlstudio/internal/config"
	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/fixtures"
	"github.com/jask/etlstudio/internal/intake"
	"github.com/jask/etlstudio/internal/logging"
	"github.com/jask/etlstudio/internal/pipeline"
	"github.com/jask/etlstudio/internal/service"
	"github.com/jask/etlstudio/internal/tui/widgets"
)

const defaultToastTTL = 3 * time.Second

// Deps is everything the views need.
type Deps struct {
	Config    config.Config
	Logger    *slog.Logger
	Runner    *pipeline.Runner
	Store     *intake.Store
	Loader    *intake.Loader
	Schema    *repository.SchemaRepo
	Export    *service.ExportService
	Analysis  *service.AnalysisService
	Dashboard fixtures.Dashboard
	Overview  fixtures.Overview
}

type toast struct {
	id   int
	note intake.Notification
}

// App ties together views.
type App struct {
	logger *slog.Logger

	tabs  *TabController
	views *ViewRegistry
	keys  keyMap
	help  help.Model

	width  int
	height int
	scroll int

	toasts    []toast
	nextToast int
	toastTTL  time.Duration
	status    string
	brand     string
	tagline   string
}

func New(ctx context.Context, deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Store == nil {
		deps.Store = intake.NewStore()
	}
	if deps.Loader == nil {
		deps.Loader = intake.NewLoader(deps.Logger)
	}
	if deps.Analysis == nil {
		deps.Analysis = &service.AnalysisService{}
	}
	if deps.Runner == nil {
		deps.Runner = pipeline.NewRunner(pipeline.DefaultSteps(), pipeline.Options{Delay: deps.Config.Pipeline.StepDelay, Logger: deps.Logger})
	}
	ttl := deps.Config.UI.ToastTTL
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	views := NewViewRegistry(map[Tab]View{
		TabOverview:  newOverviewView(deps.Overview),
		TabIngestion: newIngestionView(ctx, deps),
		TabPipeline:  newPipelineView(deps.Runner),
		TabDashboard: newDashboardView(deps.Dashboard),
		TabDatabase:  newDatabaseView(ctx, deps.Schema, deps.Export),
	})
	return &App{
		logger:   logging.WithComponent(deps.Logger, "tui"),
		tabs:     NewTabController(TabOverview),
		views:    views,
		keys:     newKeyMap(),
		help:     help.New(),
		toastTTL: ttl,
		brand:    deps.Overview.Brand,
		tagline:  deps.Overview.Tagline,
	}
}

func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	a.views.Each(func(_ Tab, v View) {
		cmds = append(cmds, v.Init())
	})
	return tea.Batch(cmds...)
}

// Current returns the active tab.
func (a *App) Current() Tab { return a.tabs.Current() }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case notifyMsg:
		cmds := make([]tea.Cmd, 0, len(m))
		for _, n := range m {
			a.nextToast++
			id := a.nextToast
			a.toasts = append(a.toasts, toast{id: id, note: n})
			cmds = append(cmds, tea.Tick(a.toastTTL, func(time.Time) tea.Msg {
				return toastExpiredMsg{id: id}
			}))
		}
		return a, tea.Batch(cmds...)
	case toastExpiredMsg:
		for i, t := range a.toasts {
			if t.id == m.id {
				a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
				break
			}
		}
		return a, nil
	case switchTabMsg:
		a.selectTab(Tab(m))
		return a, nil
	case statusMsg:
		a.status = string(m)
		return a, nil
	case errMsg:
		a.status = "error: " + m.Error()
		a.logger.Warn("ui error", "error", m.error)
		return a, nil
	}
	return a, a.broadcast(msg)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	current := a.views.View(a.tabs.Current())
	if m.String() == "ctrl+c" {
		return tea.Quit
	}
	if current.Capturing() {
		return current.Update(m)
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.NextTab):
		a.tabs.Next()
		a.scroll = 0
		return nil
	case key.Matches(m, a.keys.PrevTab):
		a.tabs.Prev()
		a.scroll = 0
		return nil
	case key.Matches(m, a.keys.JumpTab):
		if t, ok := tabForKey(m.String()); ok {
			a.selectTab(t)
		}
		return nil
	case key.Matches(m, a.keys.ScrollUp):
		a.scroll = max(0, a.scroll-5)
		return nil
	case key.Matches(m, a.keys.ScrollDn):
		a.scroll += 5
		return nil
	}
	return current.Update(m)
}

func (a *App) selectTab(t Tab) {
	if a.tabs.Select(t) {
		a.scroll = 0
	}
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	a.views.Each(func(_ Tab, v View) {
		if cmd := v.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	})
	return tea.Batch(cmds...)
}

var (
	brandStyle    = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true)
	navStyle      = lipgloss.NewStyle().Foreground(widgets.ColorSubtext0).Padding(0, 1)
	navActive     = lipgloss.NewStyle().Foreground(widgets.ColorBase).Background(widgets.ColorBlue).Bold(true).Padding(0, 1)
	toastOKStyle  = lipgloss.NewStyle().Foreground(widgets.ColorSuccess)
	toastErrStyle = lipgloss.NewStyle().Foreground(widgets.ColorError)
	statusStyle   = lipgloss.NewStyle().Foreground(widgets.ColorWarning)
)

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := a.renderHeader(width)
	footer := a.renderFooter(width)

	body := a.views.Render(a.tabs.Current(), width, 0)
	if a.height > 0 {
		avail := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
		body = clip(body, a.scroll, max(1, avail))
	}
	return header + "\n" + body + "\n" + footer
}

func (a *App) renderHeader(width int) string {
	title := brandStyle.Render(a.brand)
	if a.tagline != "" {
		title += widgets.MutedStyle.Render("  " + a.tagline)
	}
	parts := make([]string, 0, tabCount)
	for _, t := range All() {
		label := string(rune('1'+int(t))) + " " + t.String()
		if t == a.tabs.Current() {
			parts = append(parts, navActive.Render(label))
		} else {
			parts = append(parts, navStyle.Render(label))
		}
	}
	nav := ansi.Truncate(strings.Join(parts, " "), width, "…")
	rule := widgets.MutedStyle.Render(strings.Repeat("─", width))
	return title + "\n" + nav + "\n" + rule
}

func (a *App) renderFooter(width int) string {
	var lines []string
	for _, t := range a.toasts {
		if t.note.Error {
			lines = append(lines, toastErrStyle.Render("✗ "+t.note.Text))
		} else {
			lines = append(lines, toastOKStyle.Render("✓ "+t.note.Text))
		}
	}
	if a.status != "" {
		lines = append(lines, statusStyle.Render(a.status))
	}
	bindings := slices.Concat(a.views.View(a.tabs.Current()).Bindings(), a.keys.ShortHelp())
	lines = append(lines, ansi.Truncate(a.help.ShortHelpView(bindings), width, "…"))
	return strings.Join(lines, "\n")
}

// clip returns height lines of s starting at offset, clamping offset to the content.
func clip(s string, offset, height int) string {
	lines := strings.Split(s, "\n")
	if offset > len(lines)-height {
		offset = max(0, len(lines)-height)
	}
	end := min(len(lines), offset+height)
	return strings.Join(lines[offset:end], "\n")
}
