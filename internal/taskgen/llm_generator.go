package taskgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/codetrain/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// taskOutput is the raw LLM response before validation.
type taskOutput struct {
	Title         string     `json:"title"`
	TaskText      string     `json:"task_text"`
	Difficulty    string     `json:"difficulty"`
	Topic         string     `json:"topic"`
	IdealSolution string     `json:"ideal_solution"`
	WrongSolution string     `json:"wrong_solution"`
	TestCases     []TestCase `json:"test_cases"`
}

// Generate produces a single task. The topic is always the requested skill,
// whatever the model answered.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Task, error) {
	ctx = llm.WithPurpose(ctx, "task-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      TaskSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw taskOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	t := &Task{
		Title:         strings.TrimSpace(raw.Title),
		Text:          strings.TrimSpace(raw.TaskText),
		Difficulty:    strings.ToLower(strings.TrimSpace(raw.Difficulty)),
		Topic:         input.Skill.ID,
		IdealSolution: raw.IdealSolution,
		WrongSolution: raw.WrongSolution,
		TestCases:     raw.TestCases,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(t, input); verr != nil {
			return nil, verr
		}
	}

	return t, nil
}
