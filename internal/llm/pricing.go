package llm

import (
	"sort"
	"strings"
)

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// families prices models by ID prefix. Dated snapshots and -latest tags
// share their family's price. Figures are list prices as of 2026-02.
var families = map[string]ModelCost{
	"claude-3-haiku":    {0.25, 1.25},
	"claude-3-5-haiku":  {0.8, 4},
	"claude-haiku-4-5":  {1, 5},
	"claude-3-5-sonnet": {3, 15},
	"claude-3-7-sonnet": {3, 15},
	"claude-sonnet-4":   {3, 15},
	"claude-3-opus":     {15, 75},
	"claude-opus-4":     {15, 75},
	"claude-opus-4-5":   {5, 25},
	"claude-opus-4-6":   {5, 25},

	"gpt-4o":             {2.5, 10},
	"gpt-4o-mini":        {0.15, 0.6},
	"gpt-4.1":            {2, 8},
	"gpt-4.1-mini":       {0.4, 1.6},
	"gpt-4.1-nano":       {0.1, 0.4},
	"gpt-5":              {1.25, 10},
	"gpt-5-mini":         {0.25, 2},
	"gpt-5-nano":         {0.05, 0.4},
	"gpt-5-pro":          {15, 120},
	"gpt-5.1":            {1.25, 10},
	"gpt-5.1-codex-mini": {0.25, 2},
	"gpt-5.2":            {1.75, 14},
	"gpt-5.2-pro":        {21, 168},
	"o3":                 {2, 8},
	"o3-mini":            {1.1, 4.4},
	"o4-mini":            {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-3-flash":        {0.5, 3},
	"gemini-3-pro":          {2, 12},

	"qwen3-coder":   {0.22, 0.95},
	"deepseek-chat": {0.27, 1.1},
}

// prefixes is families' keys, longest first, so the most specific family
// wins.
var prefixes = func() []string {
	out := make([]string, 0, len(families))
	for k := range families {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// LookupCost prices a model ID. Router IDs such as "openai/gpt-5-mini"
// are priced by their model part. Returns nil for unknown models.
func LookupCost(modelID string) *ModelCost {
	id := strings.ToLower(modelID)
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	for _, p := range prefixes {
		if id == p || strings.HasPrefix(id, p+"-") {
			c := families[p]
			return &c
		}
	}
	return nil
}
