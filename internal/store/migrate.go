package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/codetrain/ent/schema"
)

// Table names. Queries in this package refer to these constants only.
const (
	tableLearners    = "learners"
	tableTasks       = "tasks"
	tableMastery     = "skill_masteries"
	tableAttempts    = "attempt_events"
	tableSessions    = "session_events"
	tableLLMRequests = "llm_request_events"
)

// entities lists every persisted ent schema with its table name.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableLearners, schema.Learner{}},
	{tableTasks, schema.Task{}},
	{tableMastery, schema.SkillMastery{}},
	{tableAttempts, schema.AttemptEvent{}},
	{tableSessions, schema.SessionEvent{}},
	{tableLLMRequests, schema.LLMRequestEvent{}},
}

// migrate creates or upgrades all tables described in ent/schema.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables := make([]*entschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := buildTable(e.table, e.schema)
		if err != nil {
			return fmt.Errorf("table %s: %w", e.table, err)
		}
		tables = append(tables, t)
	}

	m, err := entschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// buildTable converts an ent schema (fields, indexes and mixins) into the
// table description consumed by the ent migration engine.
func buildTable(name string, s ent.Interface) (*entschema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, mx := range s.Mixin() {
		fields = append(fields, mx.Fields()...)
		indexes = append(indexes, mx.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	id := &entschema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	columns := []*entschema.Column{id}
	byName := map[string]*entschema.Column{"id": id}

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %q: %w", d.Name, d.Err)
		}
		col := &entschema.Column{
			Name:     columnName(d),
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     int64(d.Size),
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		for _, e := range d.Enums {
			col.Enums = append(col.Enums, e.V)
		}
		columns = append(columns, col)
		byName[d.Name] = col
	}

	t := &entschema.Table{
		Name:       name,
		Columns:    columns,
		PrimaryKey: []*entschema.Column{id},
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*entschema.Column, 0, len(d.Fields))
		for _, fname := range d.Fields {
			c, ok := byName[fname]
			if !ok {
				return nil, fmt.Errorf("index on unknown field %q", fname)
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &entschema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}

	return t, nil
}

func columnName(d *field.Descriptor) string {
	if d.StorageKey != "" {
		return d.StorageKey
	}
	return d.Name
}
