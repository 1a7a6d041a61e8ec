package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type masteryRepo struct {
	db *sql.DB
}

func (r *masteryRepo) Load(ctx context.Context, learnerID string) ([]SkillLevel, error) {
	b := sqlite()
	q, args := b.Select("skill", "level").
		From(b.Table(tableMastery)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy("id").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer rows.Close()

	var out []SkillLevel
	for rows.Next() {
		var sl SkillLevel
		if err := rows.Scan(&sl.Skill, &sl.Level); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (r *masteryRepo) Save(ctx context.Context, learnerID string, levels []SkillLevel) error {
	return saveLevels(ctx, r.db, learnerID, levels)
}

// saveLevels upserts levels on e. Existing rows keep their ID, which is what
// preserves first-observed order on Load.
func saveLevels(ctx context.Context, e execer, learnerID string, levels []SkillLevel) error {
	if len(levels) == 0 {
		return nil
	}
	now := time.Now().UTC()
	ins := sqlite().Insert(tableMastery).
		Columns("learner_id", "skill", "level", "updated_at")
	for _, l := range levels {
		ins = ins.Values(learnerID, l.Skill, l.Level, now)
	}
	q, args := ins.OnConflict(
		entsql.ConflictColumns("learner_id", "skill"),
		entsql.ResolveWith(func(u *entsql.UpdateSet) {
			u.SetExcluded("level")
			u.SetExcluded("updated_at")
		}),
	).Query()
	if _, err := e.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("upsert mastery: %w", err)
	}
	return nil
}
