package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SkillMastery holds the current BKT mastery estimate of one learner for one
// skill. Rows are upserted; the row ID preserves first-observed order.
type SkillMastery struct {
	ent.Schema
}

func (SkillMastery) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").
			NotEmpty(),
		field.String("skill").
			NotEmpty(),
		field.Float("level").
			Min(0).
			Max(1).
			Comment("Mastery probability in [0, 1]"),
		field.Time("updated_at").
			Default(time.Now),
	}
}

func (SkillMastery) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "skill").
			Unique(),
	}
}
