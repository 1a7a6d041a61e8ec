package analyzer

import "github.com/abhisek/codetrain/internal/llm"

func unit(desc string) map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 1, "description": desc}
}

// FeedbackSchema defines the JSON schema for submission reviews.
var FeedbackSchema = &llm.Schema{
	Name:        "code-review",
	Description: "A strict review of a candidate's Python solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "True only if the code passes every test case including unstated edge cases",
			},
			"time_complexity": map[string]any{
				"type":        "string",
				"description": "Big-O time complexity, e.g. O(n)",
			},
			"space_complexity": map[string]any{
				"type":        "string",
				"description": "Big-O space complexity, e.g. O(1)",
			},
			"optimal":       unit("How close the solution is to optimal"),
			"PEP8":          unit("PEP 8 conformance"),
			"style":         unit("Readability, naming and documentation"),
			"ChatGPT_style": unit("Likelihood that the code was written with an LLM"),
			"comment": map[string]any{
				"type":        "string",
				"description": "One sentence summary",
			},
			"detailed_feedback": map[string]any{
				"type":        "string",
				"description": "Detailed feedback covering both strong and weak points",
			},
		},
		"required": []any{
			"correct", "time_complexity", "space_complexity", "optimal",
			"PEP8", "style", "ChatGPT_style", "comment", "detailed_feedback",
		},
		"additionalProperties": false,
	},
}
