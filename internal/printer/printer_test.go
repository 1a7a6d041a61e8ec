package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errw bytes.Buffer
	return New(&out, &errw), &out, &errw
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPrinter(t)

	p.Success("saved %d tasks\n", 3)
	p.Warning("flake8 not found\n")
	p.Step("generating\n")
	p.Info("plain\n")

	assert.Equal(t, "✓ saved 3 tasks\n⚠️  flake8 not found\n→ generating\nplain\n", out.String())
}

func TestHeadingAndBlock(t *testing.T) {
	p, out, _ := newTestPrinter(t)
	p.Heading("Task 1/6")
	p.Block("def f():\n    pass\n")
	assert.Equal(t, "Task 1/6\n────────\n  def f():\n      pass\n", out.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
		want        string
	}{
		{"none", nil, "no learner\n\nA learner id is required.\n"},
		{"one", []string{"Pass --learner"}, "no learner\n\nA learner id is required.\n\nPass --learner\n"},
		{"many", []string{"Pass --learner", "Set CODETRAIN_LEARNER"}, "no learner\n\nA learner id is required.\n\nEither:\n  1. Pass --learner\n  2. Set CODETRAIN_LEARNER\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, errw := newTestPrinter(t)
			err := p.Error("no learner", "A learner id is required.", tt.suggestions)
			assert.EqualError(t, err, "no learner")
			assert.Equal(t, tt.want, errw.String())
		})
	}
}
