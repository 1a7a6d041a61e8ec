package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Learner is a person practicing. Learners are keyed by an external ID
// chosen by the caller (CLI flag or API path).
type Learner struct {
	ent.Schema
}

func (Learner) Fields() []ent.Field {
	return []ent.Field{
		field.String("external_id").
			NotEmpty().
			MaxLen(128).
			Unique().
			Comment("Caller-supplied learner identifier"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("last_seen_at").
			Default(time.Now).
			Comment("Last session start"),
	}
}
