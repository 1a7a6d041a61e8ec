package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type learnerRepo struct {
	db *sql.DB
}

var learnerColumns = []string{"id", "external_id", "created_at", "last_seen_at"}

func (r *learnerRepo) Ensure(ctx context.Context, externalID string) (*Learner, error) {
	now := time.Now().UTC()
	b := sqlite()
	q, args := b.Insert(tableLearners).
		Columns("external_id", "created_at", "last_seen_at").
		Values(externalID, now, now).
		OnConflict(
			entsql.ConflictColumns("external_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("last_seen_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("upsert learner: %w", err)
	}

	q, args = b.Select(learnerColumns...).
		From(b.Table(tableLearners)).
		Where(entsql.EQ("external_id", externalID)).
		Query()
	l, err := scanLearner(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("load learner: %w", err)
	}
	return l, nil
}

func (r *learnerRepo) List(ctx context.Context) ([]Learner, error) {
	b := sqlite()
	q, args := b.Select(learnerColumns...).
		From(b.Table(tableLearners)).
		OrderBy(entsql.Desc("last_seen_at")).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query learners: %w", err)
	}
	defer rows.Close()

	var out []Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLearner(s rowScanner) (*Learner, error) {
	var l Learner
	if err := s.Scan(&l.ID, &l.ExternalID, &l.CreatedAt, &l.LastSeenAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("learner not found: %w", err)
		}
		return nil, fmt.Errorf("scan learner: %w", err)
	}
	return &l, nil
}
