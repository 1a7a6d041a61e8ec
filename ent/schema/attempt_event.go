package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// HintRecord is a hint shown to the learner before submitting.
type HintRecord struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// AttemptEvent records one judged submission together with the feedback the
// analyzer produced for it.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("learner_id").
			NotEmpty(),
		field.Int64("task_id"),
		field.String("skill").
			NotEmpty().
			Comment("Topic of the task; the skill whose mastery changed"),
		field.String("status").
			Comment("success or failed"),
		field.Bool("correct"),
		field.Float("mastery_before"),
		field.Float("mastery_after"),
		field.Text("code").
			Default(""),
		field.JSON("hints_used", []HintRecord{}),
		field.Int("hints_count").
			Default(0),
		field.Time("started_at"),
		field.Time("finished_at"),
		field.String("time_complexity").
			Default(""),
		field.String("space_complexity").
			Default(""),
		field.Float("optimal").
			Default(0),
		field.Float("pep8").
			Default(0),
		field.Float("style").
			Default(0),
		field.Float("chatgpt_style").
			Default(0),
		field.Text("comment").
			Default(""),
		field.JSON("feedback", map[string]any{}).
			Comment("Full analyzer payload"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id"),
		index.Fields("session_id"),
		index.Fields("skill"),
	}
}
