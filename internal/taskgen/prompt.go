package taskgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert at writing Python programming tasks for technical interviews.

Rules:
- Generate a single realistic, practical task for the given topic and difficulty.
- The task must be solvable in at most 10 to 15 lines of code. Never generate large programs.
- The task text must name the function to write and its parameters, e.g. "Write a function solve(nums) ...".
- ideal_solution must be correct and idiomatic. wrong_solution must look plausible but fail at least one test case.
- Test cases must be automatable: input is the argument list and output is the expected return value, both as Python literals.
- Do not use escape sequences such as "\n" inside test cases.
- Do not repeat any task from the "already generated" list.`

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Skill.ID)
	if input.Skill.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", input.Skill.Description)
	}
	if len(input.Skill.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(input.Skill.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)

	b.WriteString("\nAlready generated for this topic:\n")
	b.WriteString(buildDedup(input.PriorTitles, cfg.MaxPriorTitles))

	return b.String()
}

// buildDedup formats prior titles for the prompt, keeping the most recent.
// Returns "None" if there are none.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, title := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	return strings.TrimRight(b.String(), "\n")
}
