// Package analyzer judges learner submissions with an LLM reviewer and a
// lint pass.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/codetrain/internal/lint"
	"github.com/abhisek/codetrain/internal/llm"
)

// Config holds configuration for the LLM reviewer.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1000,
		Temperature: 0.3,
	}
}

// Analyzer reviews code against a task statement.
type Analyzer struct {
	provider llm.Provider
	linter   lint.Scorer
	cfg      Config
}

// New creates an analyzer. A nil linter uses lint.New().
func New(provider llm.Provider, linter lint.Scorer, cfg Config) *Analyzer {
	if linter == nil {
		linter = lint.New()
	}
	return &Analyzer{provider: provider, linter: linter, cfg: cfg}
}

// Judge reviews code. Empty code and syntax errors are judged incorrect
// without consulting the LLM. An LLM failure is returned as an error; no
// verdict is invented for it.
func (a *Analyzer) Judge(ctx context.Context, code, taskText string) (*Feedback, error) {
	if lint.Blank(code) {
		return emptySubmission(), nil
	}

	lr, err := a.linter.Score(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lint submission: %w", err)
	}
	issues := make([]string, len(lr.Issues))
	for i, is := range lr.Issues {
		issues[i] = is.String()
	}
	if lr.SyntaxError {
		return syntaxError(lr.Tool, issues), nil
	}

	ctx = llm.WithPurpose(ctx, "code-review")

	userMsg, err := buildReviewMessage(code, taskText)
	if err != nil {
		return nil, fmt.Errorf("build review prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System: reviewSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      FeedbackSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM review failed: %w", err)
	}

	var fb Feedback
	if err := json.Unmarshal(resp.Content, &fb); err != nil {
		return nil, fmt.Errorf("failed to parse review response: %w", err)
	}

	fb.PEP8 = (clamp(fb.PEP8) + lr.Score) / 2
	fb.Optimal = clamp(fb.Optimal)
	fb.Style = clamp(fb.Style)
	fb.ChatGPTStyle = clamp(fb.ChatGPTStyle)
	fb.LintTool = lr.Tool
	fb.LintIssues = issues
	return &fb, nil
}

func clamp(f float64) float64 {
	switch {
	case f < 0 || f != f:
		return 0
	case f > 1:
		return 1
	}
	return f
}

const reviewSystemPrompt = `You are a strict technical Python expert reviewing a candidate's interview solution.

Rules:
- "correct" is true ONLY if the code passes every possible test case, including edge cases that are not stated explicitly.
- If the code does not implement the required function or class, or has no logic matching the task, correct is false.
- If the code only calls a builtin (list, print, len and the like) without solving the task, correct is false.
- If the code is syntactically valid but returns a wrong result for at least one scenario, correct is false.
- Scores are between 0 and 1.
- "comment" is one sentence. "detailed_feedback" covers both good and bad points of the solution.`

var reviewUserTemplate = template.Must(template.New("review").Parse(`Task:
{{.Task}}

Code:
{{.Code}}
`))

func buildReviewMessage(code, task string) (string, error) {
	var buf bytes.Buffer
	err := reviewUserTemplate.Execute(&buf, struct{ Code, Task string }{code, task})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
