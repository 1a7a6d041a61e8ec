package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/codetrain/internal/lock"
	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/metrics"
	"github.com/abhisek/codetrain/internal/selector"
	"github.com/abhisek/codetrain/internal/skills"
	"github.com/abhisek/codetrain/internal/store"
)

// Defaults for Config.
const (
	DefaultCycles   = 6
	DefaultMaxHints = 2
)

// Config controls a practice session.
type Config struct {
	// Cycles is the number of tasks per session, skipped ones included.
	Cycles int

	// MaxHints is the number of hints allowed per task.
	MaxHints int

	// MaxRegenerations bounds generation attempts per task.
	MaxRegenerations int

	Params mastery.Params

	// Critical and High are the selector thresholds.
	Critical float64
	High     float64

	// Universe is the skill set to select from, in tie-break order.
	Universe []string
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		Cycles:           DefaultCycles,
		MaxHints:         DefaultMaxHints,
		MaxRegenerations: DefaultMaxRegenerations,
		Params:           mastery.DefaultParams(),
		Critical:         selector.DefaultCritical,
		High:             selector.DefaultHigh,
		Universe:         skills.IDs(),
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", c.Cycles)
	}
	if c.MaxHints < 0 {
		return fmt.Errorf("max hints must not be negative, got %d", c.MaxHints)
	}
	if c.MaxRegenerations < 1 {
		return fmt.Errorf("max regenerations must be at least 1, got %d", c.MaxRegenerations)
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Critical < 0 || c.High > 1 || c.Critical >= c.High {
		return fmt.Errorf("selector thresholds must satisfy 0 <= critical < high <= 1, got %v and %v", c.Critical, c.High)
	}
	if len(c.Universe) == 0 {
		return errors.New("skill universe is empty")
	}
	return nil
}

// Deps are the collaborators a session talks to.
type Deps struct {
	Finder    TaskFinder
	Generator TaskGenerator
	Analyzer  Analyzer
	Hinter    Hinter
	Mastery   MasteryStore
	Recorder  Recorder

	// Locker serializes mastery updates per learner. Defaults to an
	// in-process lock.
	Locker lock.Locker

	// Rand drives the selector's random fallbacks. Defaults to a randomly
	// seeded source.
	Rand *rand.Rand
}

// Service starts sessions that share collaborators and configuration.
type Service struct {
	cfg      Config
	deps     Deps
	selector *selector.Selector
	now      func() time.Time
}

// NewService validates cfg and creates a service.
func NewService(cfg Config, deps Deps) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if deps.Finder == nil || deps.Generator == nil || deps.Analyzer == nil ||
		deps.Hinter == nil || deps.Mastery == nil || deps.Recorder == nil {
		return nil, errors.New("session: missing collaborator")
	}
	if deps.Locker == nil {
		deps.Locker = lock.NewLocal()
	}
	return &Service{
		cfg:      cfg,
		deps:     deps,
		selector: selector.New(cfg.Critical, cfg.High, deps.Rand),
		now:      time.Now,
	}, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Start opens a session for learnerID and records its start event.
func (s *Service) Start(ctx context.Context, learnerID string) (*Session, error) {
	if learnerID == "" {
		return nil, errors.New("learner id is required")
	}

	sess := &Session{
		svc:       s,
		id:        uuid.NewString(),
		learnerID: learnerID,
		tracker:   NewTracker(s.cfg.MaxRegenerations),
		startedAt: s.now(),
	}

	if err := s.deps.Recorder.RecordSession(ctx, store.SessionEventData{
		SessionID:     sess.id,
		LearnerID:     learnerID,
		Action:        "start",
		CyclesPlanned: s.cfg.Cycles,
	}); err != nil {
		return nil, fmt.Errorf("record session start: %w", err)
	}

	metrics.ActiveSessions.Inc()
	return sess, nil
}

// loadModel reloads the learner's mastery. The caller holds the learner lock.
func (s *Service) loadModel(ctx context.Context, learnerID string) (*mastery.Model, error) {
	levels, err := s.deps.Mastery.LoadMastery(ctx, learnerID)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "mastery store", Err: err}
	}
	return mastery.FromLevels(s.cfg.Params, levels), nil
}
