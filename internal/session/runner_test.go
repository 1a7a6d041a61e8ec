package session

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codetrain/internal/printer"
)

// scriptedPrompter replays replies in order and records the drafts it saw.
type scriptedPrompter struct {
	replies []Reply
	drafts  []string
}

func (p *scriptedPrompter) Prompt(_ context.Context, _ *Cycle, draft string) (Reply, error) {
	p.drafts = append(p.drafts, draft)
	if len(p.replies) == 0 {
		return Reply{}, errors.New("script exhausted")
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r, nil
}

func newTestRunner(t *testing.T, sess *Session, p Prompter) (*Runner, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out bytes.Buffer
	return NewRunner(sess, p, printer.New(&out, &out)), &out
}

func TestRunner_FullSession(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Cycles = 2 })
	ctx := context.Background()
	sess, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)

	p := &scriptedPrompter{replies: []Reply{
		{Action: ActionHint, Code: "def f():"},
		{Action: ActionHint, Code: "def f():"},
		{Action: ActionHint, Code: "def f():"},
		{Action: ActionSubmit, Code: "def f():\n    return 1"},
		{Action: ActionSubmit, Code: "pass"},
	}}
	r, out := newTestRunner(t, sess, p)

	sum, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.CyclesCompleted)
	assert.Equal(t, []string{"", "def f():", "def f():", "def f():", ""}, p.drafts)

	text := out.String()
	assert.Contains(t, text, "Task 1/2")
	assert.Contains(t, text, "Task 2/2")
	assert.Contains(t, text, "→ Hint: hint A")
	assert.Contains(t, text, "No hints left for this task.")
	assert.Contains(t, text, "✓ Correct!")

	_, err = sess.Next(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRunner_QuitClosesSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)

	r, _ := newTestRunner(t, sess, &scriptedPrompter{replies: []Reply{{Action: ActionQuit}}})
	sum, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.CyclesCompleted)
	assert.Equal(t, 1, sum.TasksPresented)

	attempts, err := f.store.Attempts().ForLearner(ctx, "ada", 0)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestRunner_SkipsFailedCycles(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Cycles = 2 })
	f.analyzer.err = errors.New("timeout")
	ctx := context.Background()
	sess, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)

	p := &scriptedPrompter{replies: []Reply{
		{Action: ActionSubmit, Code: "a"},
		{Action: ActionSubmit, Code: "b"},
	}}
	r, out := newTestRunner(t, sess, p)

	sum, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.CyclesSkipped)
	assert.Contains(t, out.String(), "Could not evaluate the submission")
}

func TestRunner_PromptErrorStops(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)

	r, _ := newTestRunner(t, sess, &scriptedPrompter{})
	sum, err := r.Run(ctx)
	require.EqualError(t, err, "script exhausted")
	require.NotNil(t, sum)
}
