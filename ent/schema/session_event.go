package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent marks the start and the end of a practice session. Counters
// other than cycles_planned are only filled on "end".
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").NotEmpty(),
		field.String("learner_id").NotEmpty(),
		field.Enum("action").Values("start", "end"),
		field.Int("cycles_planned").NonNegative().Default(0),
		field.Int("cycles_completed").NonNegative().Default(0),
		field.Int("cycles_skipped").NonNegative().Default(0),
		field.Int("tasks_presented").NonNegative().Default(0),
		field.Int("correct").NonNegative().Default(0),
		field.Int64("duration_ms").NonNegative().Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "action").Unique(),
		index.Fields("learner_id"),
	}
}
