package mastery

import (
	"context"
	"fmt"

	"github.com/abhisek/codetrain/internal/store"
)

// Service loads learner models. Updated levels are written by the session
// together with the attempt that produced them.
type Service struct {
	params Params
	repo   store.MasteryRepo
}

// NewService creates a mastery service backed by repo.
func NewService(params Params, repo store.MasteryRepo) *Service {
	return &Service{params: params, repo: repo}
}

// Params returns the parameters new models are built with.
func (s *Service) Params() Params {
	return s.params
}

// Load restores the learner's model. A learner without history gets an
// empty model.
func (s *Service) Load(ctx context.Context, learnerID string) (*Model, error) {
	rows, err := s.repo.Load(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load mastery for %q: %w", learnerID, err)
	}
	return FromLevels(s.params, FromStore(rows)), nil
}

// ToStore converts levels to their persisted form.
func ToStore(levels []SkillLevel) []store.SkillLevel {
	out := make([]store.SkillLevel, len(levels))
	for i, l := range levels {
		out[i] = store.SkillLevel{Skill: l.Skill, Level: l.Mastery}
	}
	return out
}

// FromStore converts persisted levels.
func FromStore(rows []store.SkillLevel) []SkillLevel {
	out := make([]SkillLevel, len(rows))
	for i, r := range rows {
		out[i] = SkillLevel{Skill: r.Skill, Mastery: r.Level}
	}
	return out
}
