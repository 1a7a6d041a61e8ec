package analyzer

// Feedback is the judged outcome of one submission. Only Correct drives
// mastery; the remaining fields are carried to persistence and reports.
type Feedback struct {
	Correct          bool    `json:"correct"`
	TimeComplexity   string  `json:"time_complexity"`
	SpaceComplexity  string  `json:"space_complexity"`
	Optimal          float64 `json:"optimal"`
	PEP8             float64 `json:"PEP8"`
	Style            float64 `json:"style"`
	ChatGPTStyle     float64 `json:"ChatGPT_style"`
	Comment          string  `json:"comment"`
	DetailedFeedback string  `json:"detailed_feedback"`

	// LintTool and LintIssues describe the lint pass merged into PEP8.
	LintTool   string   `json:"lint_tool,omitempty"`
	LintIssues []string `json:"lint_issues,omitempty"`
}

// Payload returns the feedback as an opaque key-value bag.
func (f *Feedback) Payload() map[string]any {
	p := map[string]any{
		"correct":           f.Correct,
		"time_complexity":   f.TimeComplexity,
		"space_complexity":  f.SpaceComplexity,
		"optimal":           f.Optimal,
		"PEP8":              f.PEP8,
		"style":             f.Style,
		"ChatGPT_style":     f.ChatGPTStyle,
		"comment":           f.Comment,
		"detailed_feedback": f.DetailedFeedback,
	}
	if f.LintTool != "" {
		p["lint_tool"] = f.LintTool
	}
	if len(f.LintIssues) > 0 {
		p["lint_issues"] = f.LintIssues
	}
	return p
}

func emptySubmission() *Feedback {
	return &Feedback{
		TimeComplexity:   "N/A",
		SpaceComplexity:  "N/A",
		Comment:          "No code was submitted.",
		DetailedFeedback: "The submission is empty, so there is nothing to evaluate.",
	}
}

func syntaxError(tool string, issues []string) *Feedback {
	return &Feedback{
		TimeComplexity:   "N/A",
		SpaceComplexity:  "N/A",
		Comment:          "The code has a syntax error.",
		DetailedFeedback: "The code contains syntax errors and cannot be executed.",
		LintTool:         tool,
		LintIssues:       issues,
	}
}
