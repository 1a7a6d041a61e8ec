package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TestCase is one input/output pair of a task, both as Python literals.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Task is a practice problem. Tasks are shared across learners and are
// never deleted; the session rotation works on their IDs.
type Task struct {
	ent.Schema
}

func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.String("title").
			NotEmpty(),
		field.Text("text").
			NotEmpty().
			Comment("Problem statement shown to the learner"),
		field.String("difficulty").
			Comment("easy, medium or hard"),
		field.String("topic").
			NotEmpty().
			Comment("Skill ID the task exercises"),
		field.Text("ideal_solution").
			Default(""),
		field.Text("wrong_solution").
			Default(""),
		field.JSON("test_cases", []TestCase{}).
			Comment("Automatable test cases"),
		field.String("source").
			Default("generated").
			Comment("generated or imported"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Task) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("topic", "difficulty"),
	}
}
