// Package components renders small reusable terminal widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codetrain/internal/ui/theme"
)

// LevelBar draws a value in [0,1] as a labelled horizontal bar colored by
// level.
type LevelBar struct {
	Label      string
	LabelWidth int
	Value      float64
	Width      int
}

// NewLevelBar creates a bar of total width for value.
func NewLevelBar(label string, value float64, width int) LevelBar {
	return LevelBar{Label: label, Value: value, Width: width}
}

// View renders the bar as label, blocks, then the value to two decimals.
func (b LevelBar) View() string {
	var result string

	if b.Label != "" {
		label := b.Label
		if pad := b.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += theme.Body.Render(label) + "  "
	}

	valueText := fmt.Sprintf("  %.2f", b.Value)
	barWidth := b.Width - lipgloss.Width(result) - len(valueText)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * b.Value)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	result += theme.ForLevel(b.Value).Render(strings.Repeat("█", filled))
	result += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))
	result += theme.Label.Render(valueText)
	return result
}
