// Package session runs adaptive practice sessions: pick a skill, acquire
// an unseen task, judge the learner's code and update mastery.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/abhisek/codetrain/internal/analyzer"
	"github.com/abhisek/codetrain/internal/difficulty"
	"github.com/abhisek/codetrain/internal/llm"
	"github.com/abhisek/codetrain/internal/lock"
	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/metrics"
	"github.com/abhisek/codetrain/internal/selector"
	"github.com/abhisek/codetrain/internal/store"
	"github.com/abhisek/codetrain/internal/taskgen"
)

// Cycle is one presented task.
type Cycle struct {
	Number   int // 1-based
	Of       int
	Task     *taskgen.Task
	Decision selector.Decision

	// Tier is the five-tier label of the learner's mastery on the skill.
	Tier string

	HintsLeft int
}

// Result is the outcome of a submission.
type Result struct {
	Cycle         int
	Skill         string
	Correct       bool
	MasteryBefore float64
	MasteryAfter  float64
	Feedback      *analyzer.Feedback

	// Warning is set when mastery was held unchanged.
	Warning string

	Done bool
}

// Progress is a snapshot of a session's counters.
type Progress struct {
	CyclesPlanned   int
	CyclesCompleted int
	CyclesSkipped   int
	TasksPresented  int
	Correct         int
}

// Summary is returned when a session closes.
type Summary struct {
	SessionID string
	LearnerID string
	Progress
	Levels   []mastery.SkillLevel
	Duration time.Duration
}

// Session is one learner's run of practice cycles. Its methods may be
// called from several goroutines; they are serialized.
type Session struct {
	svc       *Service
	id        string
	learnerID string
	startedAt time.Time

	mu        sync.Mutex
	tracker   *Tracker
	model     *mastery.Model
	current   *Cycle
	taskStart time.Time
	hints     []store.HintUse
	progress  progressCounters
	closed    bool
}

type progressCounters struct {
	completed, skipped, presented, correct int
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// LearnerID returns the learner the session belongs to.
func (s *Session) LearnerID() string { return s.learnerID }

// Progress returns the session's counters.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) progressLocked() Progress {
	return Progress{
		CyclesPlanned:   s.svc.cfg.Cycles,
		CyclesCompleted: s.progress.completed,
		CyclesSkipped:   s.progress.skipped,
		TasksPresented:  s.progress.presented,
		Correct:         s.progress.correct,
	}
}

// Done reports whether every cycle has completed or been skipped.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneLocked()
}

func (s *Session) doneLocked() bool {
	return s.progress.completed+s.progress.skipped >= s.svc.cfg.Cycles
}

// Current returns the task awaiting a submission, or nil.
func (s *Session) Current() *Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Next selects a skill and presents an unseen task for it. If a task is
// already awaiting a submission it is returned again. A skippable error
// consumes the cycle.
func (s *Session) Next(ctx context.Context) (*Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = llm.WithSession(ctx, s.id)

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.current != nil {
		return s.current, nil
	}
	if s.doneLocked() {
		return nil, ErrSessionComplete
	}

	model, err := s.reload(ctx)
	if err != nil {
		s.skipLocked()
		return nil, err
	}
	s.model = model

	dec, err := s.svc.selector.Select(model, s.svc.cfg.Universe)
	if err != nil {
		return nil, err
	}
	metrics.SelectorDecisions.WithLabelValues(string(dec.Regime)).Inc()

	req := Request{
		Skill:  dec.Skill,
		Levels: difficulty.StoreLevels(dec.Mastery),
		Label:  difficulty.Label(dec.Band.Min),
	}
	task, err := s.tracker.Acquire(ctx, req, s.svc.deps.Finder, s.svc.deps.Generator)
	if err != nil {
		s.skipLocked()
		return nil, err
	}

	s.progress.presented++
	s.hints = nil
	s.taskStart = s.svc.now()
	s.current = &Cycle{
		Number:    s.progress.completed + s.progress.skipped + 1,
		Of:        s.svc.cfg.Cycles,
		Task:      task,
		Decision:  dec,
		Tier:      difficulty.TierLabel(dec.Mastery),
		HintsLeft: s.svc.cfg.MaxHints,
	}
	return s.current, nil
}

// reload reads the learner's mastery under the learner lock.
func (s *Session) reload(ctx context.Context) (*mastery.Model, error) {
	unlock, err := s.svc.deps.Locker.Lock(ctx, lock.LearnerKey(s.learnerID))
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "learner lock", Err: err}
	}
	defer unlock()
	return s.svc.loadModel(ctx, s.learnerID)
}

func (s *Session) skipLocked() {
	s.progress.skipped++
	s.current = nil
	s.hints = nil
	metrics.CyclesTotal.WithLabelValues("skipped").Inc()
}

func (s *Session) currentTask(taskID int64) (*Cycle, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.current == nil || s.current.Task.ID != taskID {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrUnknownTask)
	}
	return s.current, nil
}

// Hint returns a hint for the current task. Each task allows
// Config.MaxHints hints.
func (s *Session) Hint(ctx context.Context, taskID int64, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = llm.WithSession(ctx, s.id)

	cycle, err := s.currentTask(taskID)
	if err != nil {
		return "", err
	}
	if len(s.hints) >= s.svc.cfg.MaxHints {
		return "", ErrHintLimit
	}

	previous := make([]string, len(s.hints))
	for i, h := range s.hints {
		previous[i] = h.Text
	}
	text, err := s.svc.deps.Hinter.Hint(ctx, cycle.Task.Text, code, previous...)
	if err != nil {
		return "", fmt.Errorf("hint: %w", err)
	}

	s.hints = append(s.hints, store.HintUse{Text: text, Timestamp: s.svc.now()})
	cycle.HintsLeft = s.svc.cfg.MaxHints - len(s.hints)
	return text, nil
}

// Submit judges code for the current task. Judging happens outside the
// learner lock. The mastery update and the attempt are committed together
// under it. A failed judgement or commit skips the cycle and commits
// nothing.
func (s *Session) Submit(ctx context.Context, taskID int64, code string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = llm.WithSession(ctx, s.id)

	cycle, err := s.currentTask(taskID)
	if err != nil {
		return nil, err
	}

	fb, err := s.svc.deps.Analyzer.Judge(ctx, code, cycle.Task.Text)
	if err != nil {
		s.skipLocked()
		return nil, &CollaboratorError{Collaborator: "analyzer", Err: err}
	}

	res, err := s.commit(ctx, cycle, code, fb)
	if err != nil {
		s.skipLocked()
		return nil, err
	}

	s.progress.completed++
	if res.Correct {
		s.progress.correct++
	}
	s.current = nil
	s.hints = nil
	metrics.CyclesTotal.WithLabelValues("completed").Inc()
	res.Done = s.doneLocked()
	return res, nil
}

func (s *Session) commit(ctx context.Context, cycle *Cycle, code string, fb *analyzer.Feedback) (*Result, error) {
	unlock, err := s.svc.deps.Locker.Lock(ctx, lock.LearnerKey(s.learnerID))
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "learner lock", Err: err}
	}
	defer unlock()

	model, err := s.svc.loadModel(ctx, s.learnerID)
	if err != nil {
		return nil, err
	}

	// Generated tasks carry the requested skill; stored ones their own topic.
	skill := cycle.Task.Topic
	if skill == "" {
		skill = cycle.Decision.Skill
	}

	res := &Result{
		Cycle:         cycle.Number,
		Skill:         skill,
		Correct:       fb.Correct,
		MasteryBefore: model.Mastery(skill),
		Feedback:      fb,
	}
	res.MasteryAfter, err = model.Update(skill, fb.Correct)
	if err != nil {
		var cfgErr *mastery.ConfigurationError
		if !errors.As(err, &cfgErr) {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		res.Warning = err.Error()
	}

	payload, err := json.Marshal(fb.Payload())
	if err != nil {
		return nil, fmt.Errorf("encode feedback: %w", err)
	}

	attempt := store.Attempt{
		SessionID:       s.id,
		LearnerID:       s.learnerID,
		TaskID:          cycle.Task.ID,
		Skill:           skill,
		Correct:         fb.Correct,
		MasteryBefore:   round2(res.MasteryBefore),
		MasteryAfter:    round2(res.MasteryAfter),
		Code:            code,
		Hints:           append([]store.HintUse(nil), s.hints...),
		StartedAt:       s.taskStart,
		FinishedAt:      s.svc.now(),
		TimeComplexity:  fb.TimeComplexity,
		SpaceComplexity: fb.SpaceComplexity,
		Optimal:         fb.Optimal,
		PEP8:            fb.PEP8,
		Style:           fb.Style,
		ChatGPTStyle:    fb.ChatGPTStyle,
		Comment:         fb.Comment,
		Feedback:        payload,
	}
	if err := s.svc.deps.Recorder.CommitAttempt(ctx, attempt, mastery.ToStore(model.Levels())); err != nil {
		return nil, &CollaboratorError{Collaborator: "attempt store", Err: err}
	}

	s.model = model
	metrics.MasteryUpdates.WithLabelValues(skill, strconv.FormatBool(fb.Correct)).Inc()
	return res, nil
}

// Levels returns the mastery snapshot last read by the session.
func (s *Session) Levels() []mastery.SkillLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return nil
	}
	return s.model.Levels()
}

// Close ends the session, discarding any task awaiting a submission, and
// records the end event. Closing twice returns ErrSessionClosed.
func (s *Session) Close(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	s.closed = true
	s.current = nil
	metrics.ActiveSessions.Dec()

	p := s.progressLocked()
	sum := &Summary{
		SessionID: s.id,
		LearnerID: s.learnerID,
		Progress:  p,
		Duration:  s.svc.now().Sub(s.startedAt),
	}
	if s.model != nil {
		sum.Levels = s.model.Levels()
	}

	err := s.svc.deps.Recorder.RecordSession(ctx, store.SessionEventData{
		SessionID:       s.id,
		LearnerID:       s.learnerID,
		Action:          "end",
		CyclesPlanned:   p.CyclesPlanned,
		CyclesCompleted: p.CyclesCompleted,
		CyclesSkipped:   p.CyclesSkipped,
		TasksPresented:  p.TasksPresented,
		Correct:         p.Correct,
		DurationMs:      sum.Duration.Milliseconds(),
	})
	if err != nil {
		return sum, fmt.Errorf("record session end: %w", err)
	}
	return sum, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
