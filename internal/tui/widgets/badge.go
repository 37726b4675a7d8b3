package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Badge renders a short label on a colored background.
func Badge(text string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(ColorBase).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(text)
}

// StatusColor maps a status word to a badge color.
func StatusColor(status string) lipgloss.Color {
	switch strings.ToLower(status) {
	case "completed", "excellent", "ready":
		return ColorSuccess
	case "running", "good":
		return ColorInfo
	case "error":
		return ColorError
	case "warning":
		return ColorWarning
	case "bonus":
		return ColorMauve
	default:
		return ColorSurface2
	}
}

// Button renders an action hint such as "[s] Start Pipeline". Disabled buttons are dimmed.
func Button(keyLabel, label string, disabled bool) string {
	if disabled {
		return MutedStyle.Render("[" + keyLabel + "] " + label)
	}
	return KeyStyle.Render("["+keyLabel+"]") + " " + lipgloss.NewStyle().Foreground(ColorText).Render(label)
}

// Card is a KPI tile.
type Card struct {
	Title  string
	Value  string
	Change string
	Status string
}

func (c Card) Render(width int) string {
	changeStyle := SuccessStyle
	if strings.HasPrefix(c.Change, "-") {
		changeStyle = lipgloss.NewStyle().Foreground(ColorTeal)
	}
	content := strings.Join([]string{
		LabelStyle.Render(c.Title),
		lipgloss.NewStyle().Foreground(ColorText).Bold(true).Render(c.Value) + "  " + changeStyle.Render(c.Change),
		Badge(c.Status, StatusColor(c.Status)),
	}, "\n")
	return Pane{Content: content}.Render(width, 0)
}
