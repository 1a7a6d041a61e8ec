package taskgen

import "github.com/abhisek/codetrain/internal/skills"

// Task is a Python practice problem.
type Task struct {
	// ID is the store identifier. Zero until the task is persisted.
	ID int64

	Title string

	// Text is the problem statement shown to the learner.
	Text string

	// Difficulty is one of "easy", "medium", "hard".
	Difficulty string

	// Topic is the skill the task exercises.
	Topic string

	// IdealSolution and WrongSolution are reference programs. Neither is
	// shown to the learner.
	IdealSolution string
	WrongSolution string

	// TestCases are automatable checks, as Python literals.
	TestCases []TestCase
}

// TestCase is one input/output pair, both encoded as Python literals.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// GenerateInput holds all context needed to generate a task.
type GenerateInput struct {
	// Skill is the target skill.
	Skill skills.Skill

	// Difficulty is the requested generation label.
	Difficulty string

	// PriorTitles are titles already generated for this skill. Used for
	// deduplication in the prompt.
	PriorTitles []string
}
