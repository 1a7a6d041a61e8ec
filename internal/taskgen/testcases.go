package taskgen

import (
	"fmt"
	"strings"
)

// TestCaseValidator requires a small set of complete, distinct test cases.
type TestCaseValidator struct{}

func (v *TestCaseValidator) Name() string { return "test-cases" }

func (v *TestCaseValidator) Validate(t *Task, _ GenerateInput) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if len(t.TestCases) < 2 {
		return fail("expected at least 2 test cases, got %d", len(t.TestCases))
	}
	if len(t.TestCases) > 10 {
		return fail("expected at most 10 test cases, got %d", len(t.TestCases))
	}

	seen := make(map[string]bool, len(t.TestCases))
	for i, tc := range t.TestCases {
		in := strings.TrimSpace(tc.Input)
		if in == "" || strings.TrimSpace(tc.Output) == "" {
			return fail("test case %d has an empty input or output", i+1)
		}
		if seen[in] {
			return fail("test case %d repeats input %s", i+1, in)
		}
		seen[in] = true
	}
	return nil
}
