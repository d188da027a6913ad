package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles of one theme.
type styles struct {
	canvas lipgloss.Style
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	on     lipgloss.Style
	off    lipgloss.Style
	paused lipgloss.Style

	sparkHigh lipgloss.Style
	sparkMid  lipgloss.Style
	sparkLow  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(60),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		on:     lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		off:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),

		sparkHigh: lipgloss.NewStyle().Foreground(t.Error),
		sparkMid:  lipgloss.NewStyle().Foreground(t.Warning),
		sparkLow:  lipgloss.NewStyle().Foreground(t.Success),
	}
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values scaled to [0, max]. Values above
// 70% of max use the high style, below 30% the low style. A non-positive max
// scales to the largest value.
func (s styles) Sparkline(values []float64, width int, max float64) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if max <= 0 {
		for _, v := range values {
			max = math.Max(max, v)
		}
		if max == 0 {
			max = 1
		}
	}

	var b strings.Builder
	for _, v := range values {
		norm := math.Max(0, math.Min(1, v/max))
		c := string(sparkChars[int(norm*float64(len(sparkChars)-1))])
		switch {
		case norm > 0.7:
			b.WriteString(s.sparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(s.sparkMid.Render(c))
		default:
			b.WriteString(s.sparkLow.Render(c))
		}
	}
	return b.String()
}
