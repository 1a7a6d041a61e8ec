package taskgen

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/codetrain/internal/skills"
	"github.com/abhisek/codetrain/internal/store"
)

// Catalog joins the task store and a generator: lookups read the shared
// pool, generated tasks are persisted before they are returned.
type Catalog struct {
	tasks store.TaskRepo
	gen   Generator

	mu     sync.Mutex
	titles map[string][]string // generated titles per skill
}

// NewCatalog creates a catalog over tasks and gen.
func NewCatalog(tasks store.TaskRepo, gen Generator) *Catalog {
	return &Catalog{tasks: tasks, gen: gen, titles: make(map[string][]string)}
}

// FindTask returns a stored task for skill at one of levels, skipping
// exclude. Returns nil, nil on a miss.
func (c *Catalog) FindTask(ctx context.Context, skill string, levels []string, exclude []int64) (*Task, error) {
	row, err := c.tasks.Find(ctx, skill, levels, exclude)
	if err != nil {
		return nil, fmt.Errorf("find task for %q: %w", skill, err)
	}
	if row == nil {
		return nil, nil
	}
	return FromStore(row), nil
}

// GenerateTask generates a task for skill at the given label and stores it.
func (c *Catalog) GenerateTask(ctx context.Context, skill, label string) (*Task, error) {
	s, err := skills.Get(skill)
	if err != nil {
		s = skills.Skill{ID: skill, Name: skill, Description: skill}
	}

	c.mu.Lock()
	prior := append([]string(nil), c.titles[skill]...)
	c.mu.Unlock()

	t, err := c.gen.Generate(ctx, GenerateInput{Skill: s, Difficulty: label, PriorTitles: prior})
	if err != nil {
		return nil, err
	}

	row, err := c.tasks.Insert(ctx, ToStore(t, "generated"))
	if err != nil {
		return nil, fmt.Errorf("store generated task: %w", err)
	}
	t.ID = row.ID

	c.mu.Lock()
	c.titles[skill] = append(c.titles[skill], t.Title)
	c.mu.Unlock()

	return t, nil
}

// FromStore converts a stored task.
func FromStore(row *store.Task) *Task {
	t := &Task{
		ID:            row.ID,
		Title:         row.Title,
		Text:          row.Text,
		Difficulty:    row.Difficulty,
		Topic:         row.Topic,
		IdealSolution: row.IdealSolution,
		WrongSolution: row.WrongSolution,
	}
	for _, tc := range row.TestCases {
		t.TestCases = append(t.TestCases, TestCase{Input: tc.Input, Output: tc.Output})
	}
	return t
}

// ToStore converts a task for persistence.
func ToStore(t *Task, source string) store.Task {
	row := store.Task{
		ID:            t.ID,
		Title:         t.Title,
		Text:          t.Text,
		Difficulty:    t.Difficulty,
		Topic:         t.Topic,
		IdealSolution: t.IdealSolution,
		WrongSolution: t.WrongSolution,
		Source:        source,
	}
	for _, tc := range t.TestCases {
		row.TestCases = append(row.TestCases, store.TestCase{Input: tc.Input, Output: tc.Output})
	}
	return row
}
