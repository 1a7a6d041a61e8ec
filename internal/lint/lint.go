// Package lint scores Python source against PEP 8.
package lint

import (
	"context"
	"fmt"
	"strings"
)

// MaxLineLength matches the black-compatible limit passed to flake8.
const MaxLineLength = 88

// Issue is one lint finding.
type Issue struct {
	Line    int
	Column  int
	Code    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s %s", i.Line, i.Column, i.Code, i.Message)
}

// Result is the outcome of linting one snippet.
type Result struct {
	// Score is 1 minus 0.1 per issue, floored at 0.
	Score float64

	Issues []Issue

	// SyntaxError is set when the code does not parse (E999).
	SyntaxError bool

	// Tool names the linter that produced the result.
	Tool string
}

// Scorer lints Python code.
type Scorer interface {
	Score(ctx context.Context, code string) (*Result, error)
}

// Blank reports whether code has no non-whitespace characters.
func Blank(code string) bool {
	return strings.TrimSpace(code) == ""
}

func newResult(tool string, issues []Issue) *Result {
	r := &Result{Tool: tool, Issues: issues}
	for _, i := range issues {
		if i.Code == "E999" {
			r.SyntaxError = true
		}
	}
	r.Score = 1 - 0.1*float64(len(issues))
	if r.Score < 0 {
		r.Score = 0
	}
	if r.SyntaxError {
		r.Score = 0
	}
	return r
}

// New returns a flake8 scorer that falls back to the built-in heuristics
// when flake8 is not installed.
func New() Scorer {
	return &fallbackScorer{primary: &Flake8{Binary: "flake8"}, fallback: Heuristic{}}
}

type fallbackScorer struct {
	primary  *Flake8
	fallback Scorer
}

func (f *fallbackScorer) Score(ctx context.Context, code string) (*Result, error) {
	if f.primary.Available() {
		return f.primary.Score(ctx, code)
	}
	return f.fallback.Score(ctx, code)
}
