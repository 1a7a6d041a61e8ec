// Package theme holds the lipgloss styles shared by terminal views.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, tuned for dark terminals.
var (
	Primary   = lipgloss.Color("#3776AB") // Python blue
	Secondary = lipgloss.Color("#FFD43B") // Python yellow
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Containers
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Editor = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Primary).
		Padding(0, 1)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Fair = lipgloss.NewStyle().
		Foreground(Warning)

	Poor = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// ForLevel picks the state style for a value in [0,1], using the
// strength and weakness cut-offs of learner reports.
func ForLevel(v float64) lipgloss.Style {
	switch {
	case v >= 0.7:
		return Good
	case v <= 0.4:
		return Poor
	default:
		return Fair
	}
}
