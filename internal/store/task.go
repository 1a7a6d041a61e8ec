package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type taskRepo struct {
	db *sql.DB
}

var taskColumns = []string{
	"id", "title", "text", "difficulty", "topic",
	"ideal_solution", "wrong_solution", "test_cases", "source", "created_at",
}

func (r *taskRepo) Find(ctx context.Context, topic string, levels []string, exclude []int64) (*Task, error) {
	preds := []*entsql.Predicate{entsql.EQ("topic", topic)}
	if len(levels) > 0 {
		preds = append(preds, entsql.In("difficulty", anys(levels)...))
	}
	if len(exclude) > 0 {
		preds = append(preds, entsql.NotIn("id", anys(exclude)...))
	}

	b := sqlite()
	q, args := b.Select(taskColumns...).
		From(b.Table(tableTasks)).
		Where(entsql.And(preds...)).
		OrderExpr(entsql.Expr("RANDOM()")).
		Limit(1).
		Query()

	t, err := scanTask(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

func (r *taskRepo) Insert(ctx context.Context, t Task) (*Task, error) {
	if t.TestCases == nil {
		t.TestCases = []TestCase{}
	}
	cases, err := json.Marshal(t.TestCases)
	if err != nil {
		return nil, fmt.Errorf("marshal test cases: %w", err)
	}
	if t.Source == "" {
		t.Source = "generated"
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	q, args := sqlite().Insert(tableTasks).
		Columns(taskColumns[1:]...).
		Values(t.Title, t.Text, t.Difficulty, t.Topic,
			t.IdealSolution, t.WrongSolution, string(cases), t.Source, t.CreatedAt).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	t.ID = id
	return &t, nil
}

func (r *taskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	b := sqlite()
	q, args := b.Select(taskColumns...).
		From(b.Table(tableTasks)).
		Where(entsql.EQ("id", id)).
		Query()
	t, err := scanTask(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (r *taskRepo) List(ctx context.Context, f TaskFilter) ([]Task, error) {
	var preds []*entsql.Predicate
	if f.Topic != "" {
		preds = append(preds, entsql.EQ("topic", f.Topic))
	}
	if f.Difficulty != "" {
		preds = append(preds, entsql.EQ("difficulty", f.Difficulty))
	}

	b := sqlite()
	sel := b.Select(taskColumns...).From(b.Table(tableTasks))
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	sel = sel.OrderBy(entsql.Desc("id"))
	if f.Limit > 0 {
		sel = sel.Limit(f.Limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTask(s rowScanner) (*Task, error) {
	var t Task
	var cases []byte
	err := s.Scan(&t.ID, &t.Title, &t.Text, &t.Difficulty, &t.Topic,
		&t.IdealSolution, &t.WrongSolution, &cases, &t.Source, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(cases) > 0 {
		if err := json.Unmarshal(cases, &t.TestCases); err != nil {
			return nil, fmt.Errorf("decode test cases of task %d: %w", t.ID, err)
		}
	}
	return &t, nil
}
