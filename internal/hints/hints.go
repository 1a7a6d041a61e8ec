// Package hints produces nudges for a learner stuck on a task.
package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/codetrain/internal/llm"
)

// Unavailable is shown when no hint could be generated.
const Unavailable = "Hint is unavailable right now. Try again later."

// Config holds hint generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for hint generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.7,
	}
}

// Service generates hints with an LLM.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a hint service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// HintSchema is the response shape of a hint request.
var HintSchema = &llm.Schema{
	Name:        "hint",
	Description: "A short hint that helps without giving away the solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "The hint text",
			},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}

type hintOutput struct {
	Hint string `json:"hint"`
}

// Hint returns a hint for the learner's current code. Earlier hints for the
// same task are passed so the model does not repeat itself. Generation
// failures yield Unavailable and a warning, never an error.
func (s *Service) Hint(ctx context.Context, taskText, code string, previous ...string) (string, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintMessage(taskText, code, previous)},
		},
		Schema:      HintSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hint generation failed: %v\n", err)
		return Unavailable, nil
	}

	var out hintOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil || strings.TrimSpace(out.Hint) == "" {
		fmt.Fprintf(os.Stderr, "warning: unusable hint response: %s\n", resp.Content)
		return Unavailable, nil
	}
	return strings.TrimSpace(out.Hint), nil
}

const hintSystemPrompt = `You are a programming assistant. A job candidate is solving a Python task.

Rules:
- Give one short hint on how to improve or fix the code.
- Do not solve the task for them and do not give complete code.
- The hint should be useful but not obvious.
- Do not repeat a hint that was already given.`

func buildHintMessage(taskText, code string, previous []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task:\n%s\n\n", taskText)
	if strings.TrimSpace(code) == "" {
		b.WriteString("Their code:\n(nothing written yet)\n")
	} else {
		fmt.Fprintf(&b, "Their code:\n%s\n", code)
	}
	if len(previous) > 0 {
		b.WriteString("\nHints already given:\n")
		for i, h := range previous {
			fmt.Fprintf(&b, "%d. %s\n", i+1, h)
		}
	}
	return b.String()
}
