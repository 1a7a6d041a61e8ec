package mastery

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/codetrain/internal/store"
)

type memRepo struct {
	rows    map[string][]store.SkillLevel
	loadErr error
}

func (r *memRepo) Load(_ context.Context, learnerID string) ([]store.SkillLevel, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.rows[learnerID], nil
}

func (r *memRepo) Save(_ context.Context, learnerID string, levels []store.SkillLevel) error {
	r.rows[learnerID] = levels
	return nil
}

func TestService_Load(t *testing.T) {
	repo := &memRepo{rows: map[string][]store.SkillLevel{
		"ada": ToStore([]SkillLevel{{"strings", 0.2}, {"lists", 1.4}}),
	}}
	svc := NewService(DefaultParams(), repo)
	ctx := context.Background()

	m, err := svc.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("new learner should have no levels")
	}

	m, err = svc.Load(ctx, "ada")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	levels := m.Levels()
	if len(levels) != 2 || levels[0].Skill != "strings" || levels[1].Skill != "lists" {
		t.Fatalf("unexpected levels %+v", levels)
	}
	if levels[1].Mastery != 1 {
		t.Errorf("lists mastery %v, want clamped to 1", levels[1].Mastery)
	}
	if got := FromStore(ToStore(levels)); got[0] != levels[0] {
		t.Errorf("store conversion changed %+v to %+v", levels[0], got[0])
	}
}

func TestService_LoadError(t *testing.T) {
	boom := errors.New("disk gone")
	svc := NewService(DefaultParams(), &memRepo{loadErr: boom})
	if _, err := svc.Load(context.Background(), "ada"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
