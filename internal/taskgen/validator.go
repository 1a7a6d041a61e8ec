package taskgen

import "fmt"

// Validator checks a generated task.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	Name() string
	Validate(t *Task, input GenerateInput) *ValidationError
}

// ValidationError describes why a task failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
