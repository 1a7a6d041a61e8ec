package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type attemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var attemptColumns = []string{
	"id", "sequence", "timestamp", "session_id", "learner_id", "task_id", "skill",
	"status", "correct", "mastery_before", "mastery_after", "code",
	"hints_used", "hints_count", "started_at", "finished_at",
	"time_complexity", "space_complexity", "optimal", "pep8", "style",
	"chatgpt_style", "comment", "feedback",
}

func (r *attemptRepo) Commit(ctx context.Context, a Attempt, levels []SkillLevel) error {
	hints := a.Hints
	if hints == nil {
		hints = []HintUse{}
	}
	hintsJSON, err := json.Marshal(hints)
	if err != nil {
		return fmt.Errorf("marshal hints: %w", err)
	}
	feedback := a.Feedback
	if len(feedback) == 0 {
		feedback = json.RawMessage(`{}`)
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	seqNum, err := r.seq.NextIn(ctx, tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	q, args := sqlite().Insert(tableAttempts).
		Columns(attemptColumns[1:]...).
		Values(seqNum, a.Timestamp, a.SessionID, a.LearnerID, a.TaskID, a.Skill,
			a.Status(), a.Correct, a.MasteryBefore, a.MasteryAfter, a.Code,
			string(hintsJSON), len(hints), a.StartedAt, a.FinishedAt,
			a.TimeComplexity, a.SpaceComplexity, a.Optimal, a.PEP8, a.Style,
			a.ChatGPTStyle, a.Comment, string(feedback)).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert attempt: %w", err)
	}
	if err := saveLevels(ctx, tx, a.LearnerID, levels); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) ForLearner(ctx context.Context, learnerID string, limit int) ([]Attempt, error) {
	b := sqlite()
	sel := b.Select(attemptColumns...).
		From(b.Table(tableAttempts)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var status string
		var hintsCount int
		var hints, feedback []byte
		err := rows.Scan(&a.ID, &a.Sequence, &a.Timestamp, &a.SessionID, &a.LearnerID,
			&a.TaskID, &a.Skill, &status, &a.Correct, &a.MasteryBefore, &a.MasteryAfter,
			&a.Code, &hints, &hintsCount, &a.StartedAt, &a.FinishedAt,
			&a.TimeComplexity, &a.SpaceComplexity, &a.Optimal, &a.PEP8, &a.Style,
			&a.ChatGPTStyle, &a.Comment, &feedback)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if len(hints) > 0 {
			if err := json.Unmarshal(hints, &a.Hints); err != nil {
				return nil, fmt.Errorf("decode hints of attempt %d: %w", a.ID, err)
			}
		}
		a.Feedback = json.RawMessage(feedback)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attemptRepo) Stats(ctx context.Context, learnerID string) (*AttemptStats, error) {
	b := sqlite()
	q, args := b.Select(
		entsql.Count("*"),
		entsql.Sum("correct"),
		entsql.Sum("hints_count"),
		entsql.Avg("style"),
		entsql.Avg("pep8"),
		entsql.Avg("optimal"),
		entsql.Avg("chatgpt_style"),
	).
		From(b.Table(tableAttempts)).
		Where(entsql.EQ("learner_id", learnerID)).
		Query()

	var (
		total                        int
		successful, hints            sql.NullInt64
		style, pep8, optimal, gptish sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&total, &successful, &hints, &style, &pep8, &optimal, &gptish)
	if err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}

	stats := &AttemptStats{
		TotalAttempts:      total,
		SuccessfulAttempts: int(successful.Int64),
		TotalHintsUsed:     int(hints.Int64),
		AvgStyle:           style.Float64,
		AvgPEP8:            pep8.Float64,
		AvgOptimal:         optimal.Float64,
		AvgChatGPTStyle:    gptish.Float64,
	}

	q, args = b.Select("time_complexity").
		From(b.Table(tableAttempts)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy("sequence").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query complexities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc string
		if err := rows.Scan(&tc); err != nil {
			return nil, fmt.Errorf("scan complexity: %w", err)
		}
		stats.TimeComplexities = append(stats.TimeComplexities, tc)
	}
	return stats, rows.Err()
}

func (r *attemptRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := sqlite().Insert(tableSessions).
		Columns("sequence", "timestamp", "session_id", "learner_id", "action",
			"cycles_planned", "cycles_completed", "cycles_skipped", "tasks_presented",
			"correct", "duration_ms").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.LearnerID, data.Action,
			data.CyclesPlanned, data.CyclesCompleted, data.CyclesSkipped, data.TasksPresented,
			data.Correct, data.DurationMs).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}
