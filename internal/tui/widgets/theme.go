package widgets

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
const (
	ColorMauve    lipgloss.Color = "#cba6f7"
	ColorRed      lipgloss.Color = "#f38ba8"
	ColorPeach    lipgloss.Color = "#fab387"
	ColorYellow   lipgloss.Color = "#f9e2af"
	ColorGreen    lipgloss.Color = "#a6e3a1"
	ColorTeal     lipgloss.Color = "#94e2d5"
	ColorSapphire lipgloss.Color = "#74c7ec"
	ColorBlue     lipgloss.Color = "#89b4fa"
	ColorLavender lipgloss.Color = "#b4befe"

	ColorText     lipgloss.Color = "#cdd6f4"
	ColorSubtext0 lipgloss.Color = "#a6adc8"
	ColorOverlay1 lipgloss.Color = "#7f849c"
	ColorOverlay0 lipgloss.Color = "#6c7086"
	ColorSurface2 lipgloss.Color = "#585b70"
	ColorSurface1 lipgloss.Color = "#45475a"
	ColorSurface0 lipgloss.Color = "#313244"
	ColorBase     lipgloss.Color = "#1e1e2e"
	ColorMantle   lipgloss.Color = "#181825"
)

const (
	ColorAccent  = ColorMauve
	ColorSuccess = ColorGreen
	ColorError   = ColorRed
	ColorWarning = ColorYellow
	ColorInfo    = ColorBlue
)

var (
	TitleStyle    = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorSubtext0)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorOverlay1)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorOverlay1)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorPeach)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorError)
	KeyStyle      = lipgloss.NewStyle().Foreground(ColorLavender).Bold(true)
)
