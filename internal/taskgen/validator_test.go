package taskgen

import (
	"strings"
	"testing"
)

func validTask() *Task {
	return &Task{
		Title:         "Unique words",
		Text:          "Write solve(s) returning the number of distinct words in s.",
		Difficulty:    "medium",
		Topic:         "sets",
		IdealSolution: "def solve(s):\n    return len(set(s.split()))",
		WrongSolution: "def solve(s):\n    return len(s.split())",
		TestCases: []TestCase{
			{Input: `"a b a"`, Output: "2"},
			{Input: `""`, Output: "0"},
		},
	}
}

func TestValidators_AcceptValidTask(t *testing.T) {
	for _, v := range DefaultConfig().Validators {
		if err := v.Validate(validTask(), GenerateInput{Difficulty: "medium"}); err != nil {
			t.Errorf("%s rejected a valid task: %v", v.Name(), err)
		}
	}
}

func TestStructural(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Task)
		want   string
	}{
		{"empty title", func(t *Task) { t.Title = " " }, "title is empty"},
		{"long title", func(t *Task) { t.Title = strings.Repeat("x", 121) }, "title exceeds"},
		{"empty text", func(t *Task) { t.Text = "" }, "task_text is empty"},
		{"no ideal", func(t *Task) { t.IdealSolution = "" }, "ideal_solution is empty"},
		{"no wrong", func(t *Task) { t.WrongSolution = "" }, "wrong_solution is empty"},
		{"same solutions", func(t *Task) { t.WrongSolution = t.IdealSolution + "\n" }, "identical"},
		{"long solution", func(t *Task) { t.IdealSolution = strings.Repeat("x = 1\n", 25) }, "longer than 20 lines"},
	}
	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := v.Validate(task, GenerateInput{})
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Validator != "structural" || !err.Retryable {
				t.Errorf("unexpected error shape: %+v", err)
			}
			if !strings.Contains(err.Message, tt.want) {
				t.Errorf("message %q does not contain %q", err.Message, tt.want)
			}
		})
	}
}

func TestTestCases(t *testing.T) {
	tests := []struct {
		name  string
		cases []TestCase
		want  string
	}{
		{"too few", []TestCase{{Input: "1", Output: "1"}}, "at least 2"},
		{"empty output", []TestCase{{Input: "1", Output: "1"}, {Input: "2", Output: " "}}, "empty input or output"},
		{"duplicate input", []TestCase{{Input: "1", Output: "1"}, {Input: " 1", Output: "2"}}, "repeats input"},
	}
	v := &TestCaseValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			task.TestCases = tt.cases
			err := v.Validate(task, GenerateInput{})
			if err == nil || !strings.Contains(err.Message, tt.want) {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDifficultyValidator(t *testing.T) {
	v := &DifficultyValidator{}
	task := validTask()

	if err := v.Validate(task, GenerateInput{}); err != nil {
		t.Errorf("no requested label should accept any valid label: %v", err)
	}
	task.Difficulty = "easy-medium"
	if err := v.Validate(task, GenerateInput{}); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Validator: "structural", Message: "title is empty"}
	if err.Error() != `validator "structural": title is empty` {
		t.Errorf("unexpected message %q", err.Error())
	}
}
