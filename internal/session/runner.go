package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/codetrain/internal/printer"
	"github.com/abhisek/codetrain/internal/skills"
)

// Action is what the learner chose to do with the current task.
type Action int

const (
	ActionSubmit Action = iota
	ActionHint
	ActionQuit
)

// Reply is one round of learner input. Code is the current draft and is
// kept between rounds.
type Reply struct {
	Action Action
	Code   string
}

// Prompter collects learner input for a cycle. draft is the code from the
// previous round, empty on the first one.
type Prompter interface {
	Prompt(ctx context.Context, c *Cycle, draft string) (Reply, error)
}

// Runner drives a session from the terminal.
type Runner struct {
	sess     *Session
	prompter Prompter
	out      *printer.Printer
}

// NewRunner creates a runner. A nil printer uses printer.Default.
func NewRunner(sess *Session, prompter Prompter, out *printer.Printer) *Runner {
	if out == nil {
		out = printer.Default
	}
	return &Runner{sess: sess, prompter: prompter, out: out}
}

// Run presents cycles until the session is done or the learner quits, then
// closes the session.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	err := r.loop(ctx)
	sum, closeErr := r.sess.Close(context.WithoutCancel(ctx))
	if err != nil {
		return sum, err
	}
	return sum, closeErr
}

func (r *Runner) loop(ctx context.Context) error {
	for !r.sess.Done() {
		cycle, err := r.sess.Next(ctx)
		switch {
		case errors.Is(err, ErrSessionComplete):
			return nil
		case IsSkippable(err):
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.out.Warning("Skipping this task: %v\n", err)
			continue
		case err != nil:
			return err
		}

		r.present(cycle)
		quit, err := r.work(ctx, cycle)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return nil
}

func (r *Runner) present(c *Cycle) {
	fmt.Fprintln(r.out.Out)
	r.out.Heading(fmt.Sprintf("Task %d/%d · %s · %s", c.Number, c.Of, skillName(c.Task.Topic), c.Task.Difficulty))
	if c.Task.Title != "" {
		r.out.Info("%s\n\n", c.Task.Title)
	}
	r.out.Info("%s\n", strings.TrimSpace(c.Task.Text))
}

// work handles hint requests until the learner submits or quits.
func (r *Runner) work(ctx context.Context, c *Cycle) (quit bool, err error) {
	draft := ""
	for {
		reply, err := r.prompter.Prompt(ctx, c, draft)
		if err != nil {
			return false, err
		}
		draft = reply.Code

		switch reply.Action {
		case ActionQuit:
			return true, nil

		case ActionHint:
			hint, err := r.sess.Hint(ctx, c.Task.ID, draft)
			if errors.Is(err, ErrHintLimit) {
				r.out.Warning("No hints left for this task.\n")
				continue
			}
			if err != nil {
				return false, err
			}
			r.out.Step("Hint: %s\n", hint)

		case ActionSubmit:
			res, err := r.sess.Submit(ctx, c.Task.ID, draft)
			if IsSkippable(err) {
				r.out.Warning("Could not evaluate the submission, skipping: %v\n", err)
				return false, nil
			}
			if err != nil {
				return false, err
			}
			r.result(res)
			return false, nil
		}
	}
}

func (r *Runner) result(res *Result) {
	if res.Correct {
		r.out.Success("Correct!\n")
	} else {
		r.out.Warning("Not quite.\n")
	}
	if fb := res.Feedback; fb != nil {
		if fb.Comment != "" {
			r.out.Info("%s\n", fb.Comment)
		}
		if fb.DetailedFeedback != "" {
			r.out.Block(fb.DetailedFeedback)
		}
		if fb.TimeComplexity != "" {
			r.out.Info("Time %s · Space %s\n", fb.TimeComplexity, fb.SpaceComplexity)
		}
	}
	r.out.Step("%s mastery %.2f → %.2f\n", res.Skill, res.MasteryBefore, res.MasteryAfter)
}

func skillName(id string) string {
	if s, err := skills.Get(id); err == nil {
		return s.Name
	}
	return id
}
