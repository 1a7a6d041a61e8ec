package taskgen

import (
	"fmt"

	"github.com/abhisek/codetrain/internal/difficulty"
)

// DifficultyValidator requires the task to carry the requested label.
type DifficultyValidator struct{}

func (v *DifficultyValidator) Name() string { return "difficulty" }

func (v *DifficultyValidator) Validate(t *Task, input GenerateInput) *ValidationError {
	if !difficulty.Valid(t.Difficulty) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("difficulty %q is not one of easy, medium, hard", t.Difficulty),
			Retryable: true,
		}
	}
	if input.Difficulty != "" && t.Difficulty != input.Difficulty {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("requested %q difficulty, got %q", input.Difficulty, t.Difficulty),
			Retryable: true,
		}
	}
	return nil
}
