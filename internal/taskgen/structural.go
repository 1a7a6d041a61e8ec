package taskgen

import "strings"

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(t *Task, _ GenerateInput) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	switch {
	case strings.TrimSpace(t.Title) == "":
		return fail("title is empty")
	case len(t.Title) > 120:
		return fail("title exceeds 120 characters")
	case strings.TrimSpace(t.Text) == "":
		return fail("task_text is empty")
	case len(t.Text) > 2000:
		return fail("task_text exceeds 2000 characters")
	case strings.TrimSpace(t.IdealSolution) == "":
		return fail("ideal_solution is empty")
	case strings.TrimSpace(t.WrongSolution) == "":
		return fail("wrong_solution is empty")
	case strings.TrimSpace(t.IdealSolution) == strings.TrimSpace(t.WrongSolution):
		return fail("wrong_solution is identical to ideal_solution")
	case strings.Count(t.IdealSolution, "\n") >= 20:
		return fail("ideal_solution is longer than 20 lines")
	}
	return nil
}
