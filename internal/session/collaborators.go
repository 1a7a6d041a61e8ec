package session

import (
	"context"
	"fmt"

	"github.com/abhisek/codetrain/internal/analyzer"
	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/store"
)

// Analyzer judges a submission.
type Analyzer interface {
	Judge(ctx context.Context, code, taskText string) (*analyzer.Feedback, error)
}

// Hinter writes a hint for the task. previous holds hints already shown.
type Hinter interface {
	Hint(ctx context.Context, taskText, code string, previous ...string) (string, error)
}

// MasteryStore loads a learner's persisted mastery.
type MasteryStore interface {
	LoadMastery(ctx context.Context, learnerID string) ([]mastery.SkillLevel, error)
}

// Recorder persists attempts and session lifecycle events. CommitAttempt
// saves the mastery levels and the attempt atomically.
type Recorder interface {
	CommitAttempt(ctx context.Context, a store.Attempt, levels []store.SkillLevel) error
	RecordSession(ctx context.Context, data store.SessionEventData) error
}

// StoreBackend adapts the SQLite repositories to MasteryStore and Recorder.
type StoreBackend struct {
	mastery  store.MasteryRepo
	attempts store.AttemptRepo
}

// NewStoreBackend creates a backend over the given repositories.
func NewStoreBackend(m store.MasteryRepo, a store.AttemptRepo) *StoreBackend {
	return &StoreBackend{mastery: m, attempts: a}
}

func (b *StoreBackend) LoadMastery(ctx context.Context, learnerID string) ([]mastery.SkillLevel, error) {
	rows, err := b.mastery.Load(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	return mastery.FromStore(rows), nil
}

func (b *StoreBackend) CommitAttempt(ctx context.Context, a store.Attempt, levels []store.SkillLevel) error {
	return b.attempts.Commit(ctx, a, levels)
}

func (b *StoreBackend) RecordSession(ctx context.Context, data store.SessionEventData) error {
	return b.attempts.AppendSessionEvent(ctx, data)
}
