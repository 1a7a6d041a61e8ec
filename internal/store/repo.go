package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Session restricts LLM events to one practice session.
	Session string
}

// Learner is a registered learner.
type Learner struct {
	ID         int
	ExternalID string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// LearnerRepo manages learners.
type LearnerRepo interface {
	// Ensure creates the learner if missing and bumps last_seen_at.
	Ensure(ctx context.Context, externalID string) (*Learner, error)

	// List returns all learners, most recently seen first.
	List(ctx context.Context) ([]Learner, error)
}

// TestCase is one automatable check of a task, as Python literals.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Task is a stored practice problem.
type Task struct {
	ID            int64
	Title         string
	Text          string
	Difficulty    string
	Topic         string
	IdealSolution string
	WrongSolution string
	TestCases     []TestCase
	Source        string
	CreatedAt     time.Time
}

// TaskFilter narrows task listings. Zero values mean no filtering.
type TaskFilter struct {
	Topic      string
	Difficulty string
	Limit      int
}

// TaskRepo manages the shared task pool.
type TaskRepo interface {
	// Find returns one random task for topic whose difficulty is one of
	// levels and whose ID is not in exclude. Returns nil when nothing matches.
	Find(ctx context.Context, topic string, levels []string, exclude []int64) (*Task, error)

	// Insert stores a task and returns it with its assigned ID.
	Insert(ctx context.Context, t Task) (*Task, error)

	// Get returns a task by ID, or nil if it doesn't exist.
	Get(ctx context.Context, id int64) (*Task, error)

	// List returns tasks newest first.
	List(ctx context.Context, f TaskFilter) ([]Task, error)
}

// SkillLevel is one persisted mastery estimate.
type SkillLevel struct {
	Skill string
	Level float64
}

// MasteryRepo persists per-learner mastery.
type MasteryRepo interface {
	// Load returns the learner's mastery in first-observed order.
	Load(ctx context.Context, learnerID string) ([]SkillLevel, error)

	// Save upserts the given levels.
	Save(ctx context.Context, learnerID string, levels []SkillLevel) error
}

// HintUse is one hint shown during an attempt.
type HintUse struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Attempt is a judged submission.
type Attempt struct {
	ID              int
	Sequence        int64
	Timestamp       time.Time
	SessionID       string
	LearnerID       string
	TaskID          int64
	Skill           string
	Correct         bool
	MasteryBefore   float64
	MasteryAfter    float64
	Code            string
	Hints           []HintUse
	StartedAt       time.Time
	FinishedAt      time.Time
	TimeComplexity  string
	SpaceComplexity string
	Optimal         float64
	PEP8            float64
	Style           float64
	ChatGPTStyle    float64
	Comment         string
	Feedback        json.RawMessage
}

// Status returns "success" for correct attempts and "failed" otherwise.
func (a Attempt) Status() string {
	if a.Correct {
		return "success"
	}
	return "failed"
}

// AttemptStats are the raw aggregates used to build a learner report.
type AttemptStats struct {
	TotalAttempts      int
	SuccessfulAttempts int
	TotalHintsUsed     int
	AvgStyle           float64
	AvgPEP8            float64
	AvgOptimal         float64
	AvgChatGPTStyle    float64
	TimeComplexities   []string
}

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID       string
	LearnerID       string
	Action          string // "start" or "end"
	CyclesPlanned   int
	CyclesCompleted int
	CyclesSkipped   int
	TasksPresented  int
	Correct         int
	DurationMs      int64
}

// AttemptRepo records judged attempts and session lifecycle events.
type AttemptRepo interface {
	// Commit records the attempt and upserts levels in one transaction.
	Commit(ctx context.Context, a Attempt, levels []SkillLevel) error

	// ForLearner returns the learner's attempts, newest first.
	ForLearner(ctx context.Context, learnerID string, limit int) ([]Attempt, error)

	// Stats aggregates all of a learner's attempts.
	Stats(ctx context.Context, learnerID string) (*AttemptStats, error)

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one group.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
