package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/codetrain/internal/llm"
)

// Fallback is the feedback text used when the LLM cannot write one.
const Fallback = "Keep it up!"

// RendererConfig holds feedback generation settings.
type RendererConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultRendererConfig returns the standard feedback settings.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{MaxTokens: 250, Temperature: 0.5}
}

// Renderer writes the human feedback paragraph of a report.
type Renderer struct {
	provider llm.Provider
	cfg      RendererConfig
}

// NewRenderer creates a renderer. A nil provider always yields Fallback.
func NewRenderer(provider llm.Provider, cfg RendererConfig) *Renderer {
	return &Renderer{provider: provider, cfg: cfg}
}

// FeedbackSchema is the response shape of a feedback request.
var FeedbackSchema = &llm.Schema{
	Name:        "learner-feedback",
	Description: "A short motivating feedback paragraph for a learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Three or four sentences of plain text, no headings",
			},
		},
		"required":             []any{"feedback"},
		"additionalProperties": false,
	},
}

// Render returns feedback text for r. It never fails; on any problem it
// warns on stderr and returns Fallback.
func (rd *Renderer) Render(ctx context.Context, r Report) string {
	if rd.provider == nil {
		return Fallback
	}
	ctx = llm.WithPurpose(ctx, "report")

	resp, err := rd.provider.Generate(ctx, llm.Request{
		System: feedbackSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFeedbackMessage(r)},
		},
		Schema:      FeedbackSchema,
		MaxTokens:   rd.cfg.MaxTokens,
		Temperature: rd.cfg.Temperature,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: report feedback failed: %v\n", err)
		return Fallback
	}

	var out struct {
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil || strings.TrimSpace(out.Feedback) == "" {
		fmt.Fprintf(os.Stderr, "warning: unusable report feedback: %s\n", resp.Content)
		return Fallback
	}
	return strings.TrimSpace(out.Feedback)
}

const feedbackSystemPrompt = `You are a Python mentor. You are supportive and specific, with no filler, and you stick to the facts.
Write a short (3 to 4 sentences) motivating feedback paragraph from the learner data you are given.
Name the strong and weak topics and say which topics need more work. Plain text, no headings.`

func skillList(levels []SkillLevel, empty string) string {
	if len(levels) == 0 {
		return empty
	}
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.Skill
	}
	return strings.Join(names, ", ")
}

func buildFeedbackMessage(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Learner %s. Level: %s. ", r.LearnerID, r.Grade)
	fmt.Fprintf(&b, "Strengths: %s. ", skillList(r.Strengths, "none identified yet"))
	fmt.Fprintf(&b, "Weaknesses: %s. ", skillList(r.Weaknesses, "no clear problems yet"))
	fmt.Fprintf(&b, "Tasks attempted: %d, of which successful: %d. ", r.Summary.TotalAttempts, r.Summary.SuccessfulAttempts)
	fmt.Fprintf(&b, "Hints used: %d. ", r.Summary.TotalHintsUsed)
	q := r.CodeQuality
	fmt.Fprintf(&b, "Code quality: style %.2f, PEP8 %.2f, optimality %.2f. ", q.AvgStyle, q.AvgPEP8, q.AvgOptimal)
	fmt.Fprintf(&b, "Likelihood the code was written with an AI assistant (ChatGPT_style): %.2f.", q.AvgChatGPTStyle)
	if q.NonOptimalComplexityCount > 0 {
		fmt.Fprintf(&b, " Note: %d tasks used a non-optimal complexity (O(n²) or worse).", q.NonOptimalComplexityCount)
	}
	return b.String()
}
