package session

import (
	"context"
	"errors"

	"github.com/abhisek/codetrain/internal/metrics"
	"github.com/abhisek/codetrain/internal/taskgen"
)

// DefaultMaxRegenerations bounds generation attempts per acquisition.
const DefaultMaxRegenerations = 3

// TaskFinder looks tasks up in the shared pool. A nil task with a nil
// error is a miss.
type TaskFinder interface {
	FindTask(ctx context.Context, skill string, levels []string, exclude []int64) (*taskgen.Task, error)
}

// TaskGenerator produces a fresh task for a skill at a generation label.
type TaskGenerator interface {
	GenerateTask(ctx context.Context, skill, label string) (*taskgen.Task, error)
}

// Request is what the session asks the tracker for.
type Request struct {
	Skill  string
	Levels []string // store query levels
	Label  string   // generation label
}

// Tracker remembers which tasks a session has presented. The used set only
// grows, and only when a task is accepted.
type Tracker struct {
	maxRegenerations int
	used             map[int64]struct{}
	order            []int64
}

// NewTracker creates an empty tracker. Values below 1 fall back to
// DefaultMaxRegenerations.
func NewTracker(maxRegenerations int) *Tracker {
	if maxRegenerations < 1 {
		maxRegenerations = DefaultMaxRegenerations
	}
	return &Tracker{maxRegenerations: maxRegenerations, used: make(map[int64]struct{})}
}

// Seen reports whether the task id was accepted before.
func (t *Tracker) Seen(id int64) bool {
	_, ok := t.used[id]
	return ok
}

// Used returns the accepted ids in acceptance order.
func (t *Tracker) Used() []int64 {
	return append([]int64(nil), t.order...)
}

// Len returns the number of accepted tasks.
func (t *Tracker) Len() int {
	return len(t.order)
}

func (t *Tracker) accept(id int64) {
	t.used[id] = struct{}{}
	t.order = append(t.order, id)
}

// Acquire returns a task the session has not presented yet. The store is
// asked first; on a miss, or a hit that was already used, tasks are
// generated until one is unseen or the regeneration ceiling is reached.
func (t *Tracker) Acquire(ctx context.Context, req Request, finder TaskFinder, gen TaskGenerator) (*taskgen.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CollaboratorError{Collaborator: "task store", Err: err}
	}

	task, err := finder.FindTask(ctx, req.Skill, req.Levels, t.Used())
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "task store", Err: err}
	}
	if task != nil && !t.Seen(task.ID) {
		t.accept(task.ID)
		metrics.TaskAcquisitions.WithLabelValues("store").Inc()
		return task, nil
	}

	for range t.maxRegenerations {
		task, err := gen.GenerateTask(ctx, req.Skill, req.Label)
		if err != nil {
			return nil, &CollaboratorError{Collaborator: "task generator", Err: err}
		}
		if task == nil {
			return nil, &CollaboratorError{Collaborator: "task generator", Err: errors.New("no task returned")}
		}
		if t.Seen(task.ID) {
			metrics.TaskRegenerations.Inc()
			continue
		}
		t.accept(task.ID)
		metrics.TaskAcquisitions.WithLabelValues("generated").Inc()
		return task, nil
	}

	return nil, &ExhaustedRotationError{Skill: req.Skill, Attempts: t.maxRegenerations}
}
