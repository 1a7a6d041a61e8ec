package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/ui/components"
	"github.com/abhisek/codetrain/internal/ui/theme"
)

const cardWidth = 56

// Card renders the report as a bordered terminal card. levels, when given,
// are drawn as one bar per skill.
func Card(r Report, levels []mastery.SkillLevel) string {
	var sections []string

	sections = append(sections,
		theme.Title.Render(fmt.Sprintf("%s · %s", r.LearnerID, r.Grade))+
			theme.Label.Render(fmt.Sprintf("  mean mastery %.2f", r.MeanMastery)))

	if len(levels) > 0 {
		labelWidth := 0
		for _, l := range levels {
			labelWidth = max(labelWidth, lipgloss.Width(l.Skill))
		}
		var bars []string
		for _, l := range levels {
			bar := components.NewLevelBar(l.Skill, l.Mastery, cardWidth)
			bar.LabelWidth = labelWidth
			bars = append(bars, bar.View())
		}
		sections = append(sections, strings.Join(bars, "\n"))
	}

	sections = append(sections, strings.Join([]string{
		row("Strengths", skillList(r.Strengths, "none yet")),
		row("Weaknesses", skillList(r.Weaknesses, "none")),
		row("Attempts", fmt.Sprintf("%d (%d successful)", r.Summary.TotalAttempts, r.Summary.SuccessfulAttempts)),
		row("Hints used", fmt.Sprintf("%d", r.Summary.TotalHintsUsed)),
	}, "\n"))

	q := r.CodeQuality
	sections = append(sections, strings.Join([]string{
		row("Style", score(q.AvgStyle)),
		row("PEP8", score(q.AvgPEP8)),
		row("Optimality", score(q.AvgOptimal)),
		row("AI-likeness", fmt.Sprintf("%.2f", q.AvgChatGPTStyle)),
		row("Non-optimal", fmt.Sprintf("%d", q.NonOptimalComplexityCount)),
	}, "\n"))

	if r.HumanFeedback != "" {
		sections = append(sections, theme.Hint.Width(cardWidth).Render(r.HumanFeedback))
	}

	return theme.Card.Render(strings.Join(sections, "\n\n"))
}

func row(label, value string) string {
	return theme.Label.Render(fmt.Sprintf("%-12s", label)) + theme.Body.Render(value)
}

func score(v float64) string {
	return theme.ForLevel(v).Render(fmt.Sprintf("%.2f", v))
}
