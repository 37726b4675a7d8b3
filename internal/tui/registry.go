package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// View is the content of one tab.
//
// Update receives key messages only while the view's tab is active; every
// other message is broadcast so background work (ticks, reads) lands in the
// owning view regardless of which tab is showing.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	Render(width, height int) string
	Bindings() []key.Binding
	// Capturing reports that the view is consuming raw text input.
	Capturing() bool
}

// ViewRegistry maps each tab to exactly one view.
type ViewRegistry struct {
	views map[Tab]View
}

// NewViewRegistry panics if any tab lacks a view.
func NewViewRegistry(views map[Tab]View) *ViewRegistry {
	for _, t := range All() {
		if v, ok := views[t]; !ok || v == nil {
			panic(fmt.Sprintf("tui: no view registered for tab %q", t))
		}
	}
	for t := range views {
		if !t.Valid() {
			panic(fmt.Sprintf("tui: view registered for unknown tab %d", int(t)))
		}
	}
	return &ViewRegistry{views: views}
}

func (r *ViewRegistry) View(t Tab) View { return r.views[t] }

// Render produces the content of tab t.
func (r *ViewRegistry) Render(t Tab, width, height int) string {
	return r.views[t].Render(width, height)
}

// Each visits views in tab order.
func (r *ViewRegistry) Each(fn func(Tab, View)) {
	for _, t := range All() {
		fn(t, r.views[t])
	}
}
