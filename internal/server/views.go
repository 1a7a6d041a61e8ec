package server

import (
	"github.com/abhisek/codetrain/internal/analyzer"
	"github.com/abhisek/codetrain/internal/difficulty"
	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/skills"
)

type skillView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Group         string   `json:"group"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

func newSkillView(s skills.Skill) skillView {
	return skillView{
		ID:            s.ID,
		Name:          s.Name,
		Group:         string(s.Group),
		Description:   s.Description,
		Prerequisites: s.Prerequisites,
	}
}

// taskView leaves out reference solutions and test cases.
type taskView struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

type bandView struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type cycleView struct {
	Number    int      `json:"number"`
	Of        int      `json:"of"`
	Task      taskView `json:"task"`
	Skill     string   `json:"skill"`
	Regime    string   `json:"regime"`
	Mastery   float64  `json:"mastery"`
	Band      bandView `json:"band"`
	Tier      string   `json:"tier"`
	HintsLeft int      `json:"hints_left"`
}

func newCycleView(c *session.Cycle) cycleView {
	return cycleView{
		Number: c.Number,
		Of:     c.Of,
		Task: taskView{
			ID:         c.Task.ID,
			Title:      c.Task.Title,
			Text:       c.Task.Text,
			Difficulty: c.Task.Difficulty,
			Topic:      c.Task.Topic,
		},
		Skill:     c.Decision.Skill,
		Regime:    string(c.Decision.Regime),
		Mastery:   c.Decision.Mastery,
		Band:      bandView{Min: c.Decision.Band.Min, Max: c.Decision.Band.Max},
		Tier:      c.Tier,
		HintsLeft: c.HintsLeft,
	}
}

type resultView struct {
	Cycle         int                `json:"cycle"`
	Skill         string             `json:"skill"`
	Correct       bool               `json:"correct"`
	MasteryBefore float64            `json:"mastery_before"`
	MasteryAfter  float64            `json:"mastery_after"`
	Feedback      *analyzer.Feedback `json:"feedback"`
	Warning       string             `json:"warning,omitempty"`
	Done          bool               `json:"done"`

	// Summary is set on the submission that finishes the session.
	Summary *summaryView `json:"summary,omitempty"`
}

func newResultView(r *session.Result) resultView {
	return resultView{
		Cycle:         r.Cycle,
		Skill:         r.Skill,
		Correct:       r.Correct,
		MasteryBefore: r.MasteryBefore,
		MasteryAfter:  r.MasteryAfter,
		Feedback:      r.Feedback,
		Warning:       r.Warning,
		Done:          r.Done,
	}
}

type progressView struct {
	CyclesPlanned   int  `json:"cycles_planned"`
	CyclesCompleted int  `json:"cycles_completed"`
	CyclesSkipped   int  `json:"cycles_skipped"`
	TasksPresented  int  `json:"tasks_presented"`
	Correct         int  `json:"correct"`
	Done            bool `json:"done"`
}

func newProgressView(p session.Progress) progressView {
	return progressView{
		CyclesPlanned:   p.CyclesPlanned,
		CyclesCompleted: p.CyclesCompleted,
		CyclesSkipped:   p.CyclesSkipped,
		TasksPresented:  p.TasksPresented,
		Correct:         p.Correct,
		Done:            p.CyclesCompleted+p.CyclesSkipped >= p.CyclesPlanned,
	}
}

type levelView struct {
	Skill   string  `json:"skill"`
	Mastery float64 `json:"mastery"`
	Tier    string  `json:"tier"`
}

func newLevelViews(levels []mastery.SkillLevel) []levelView {
	out := make([]levelView, len(levels))
	for i, l := range levels {
		out[i] = levelView{Skill: l.Skill, Mastery: l.Mastery, Tier: difficulty.TierLabel(l.Mastery)}
	}
	return out
}

type summaryView struct {
	SessionID       string       `json:"session_id"`
	LearnerID       string       `json:"learner_id"`
	Progress        progressView `json:"progress"`
	Levels          []levelView  `json:"levels"`
	DurationSeconds float64      `json:"duration_seconds"`
}

func newSummaryView(s *session.Summary) summaryView {
	return summaryView{
		SessionID:       s.SessionID,
		LearnerID:       s.LearnerID,
		Progress:        newProgressView(s.Progress),
		Levels:          newLevelViews(s.Levels),
		DurationSeconds: s.Duration.Seconds(),
	}
}
