package taskgen

import "github.com/abhisek/codetrain/internal/llm"

// TaskSchema defines the JSON schema for LLM task generation responses.
var TaskSchema = &llm.Schema{
	Name:        "python-task",
	Description: "A single short Python interview task with reference solutions and test cases",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short title for the task",
			},
			"task_text": map[string]any{
				"type":        "string",
				"description": "The problem statement, naming the function the candidate must write",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"easy", "medium", "hard"},
				"description": "The difficulty of the task",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The Python topic the task exercises",
			},
			"ideal_solution": map[string]any{
				"type":        "string",
				"description": "A correct, idiomatic solution of at most 15 lines",
			},
			"wrong_solution": map[string]any{
				"type":        "string",
				"description": "A plausible but incorrect solution",
			},
			"test_cases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input": map[string]any{
							"type":        "string",
							"description": "Arguments as a Python literal, e.g. [1, 2, 3]",
						},
						"output": map[string]any{
							"type":        "string",
							"description": "Expected return value as a Python literal",
						},
					},
					"required":             []any{"input", "output"},
					"additionalProperties": false,
				},
				"description": "Between 2 and 10 automatable test cases",
			},
		},
		"required":             []any{"title", "task_text", "difficulty", "topic", "ideal_solution", "wrong_solution", "test_cases"},
		"additionalProperties": false,
	},
}
