package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/etlstudio/internal/intake"
	"github.com/jask/etlstudio/internal/service"
)

type statusMsg string

type errMsg struct{ error }

// notifyMsg carries toast notifications in display order.
type notifyMsg []intake.Notification

type toastExpiredMsg struct{ id int }

type switchTabMsg Tab

type stepTickMsg struct{ runID string }

type fileLoadedMsg struct{ result intake.Result }

type filesLoadedMsg struct{ results []intake.Result }

type analysisDoneMsg struct{}

type exportDoneMsg struct{ result service.ExportResult }

type schemaLoadedMsg struct {
	schema schemaData
}

type pipelineFinishedMsg struct{ runID string }

func notify(notes ...intake.Notification) tea.Cmd {
	return func() tea.Msg { return notifyMsg(notes) }
}

func notifyText(text string, isErr bool) tea.Cmd {
	return notify(intake.Notification{Text: text, Error: isErr})
}

func switchTab(t Tab) tea.Cmd {
	return func() tea.Msg { return switchTabMsg(t) }
}
