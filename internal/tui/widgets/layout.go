package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadRight pads s with spaces to width display cells, truncating if longer.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// Row lays blocks out left to right with gap columns between them.
func Row(gap int, blocks ...string) string {
	if len(blocks) == 0 {
		return ""
	}
	spaced := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 && gap > 0 {
			spaced = append(spaced, strings.Repeat(" ", gap))
		}
		spaced = append(spaced, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}

// Stack joins non-empty blocks vertically separated by blank lines.
func Stack(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

// Split divides total into n widths separated by gap, spreading the remainder left.
func Split(total, n, gap int) []int {
	if n <= 0 {
		return nil
	}
	avail := total - gap*(n-1)
	if avail < n {
		avail = n
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = avail / n
		if i < avail%n {
			widths[i]++
		}
	}
	return widths
}

func splitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
