// Package report summarizes a learner's progress: a grade from mean
// mastery, strengths and weaknesses, attempt counters and code quality.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/store"
)

// Grades, from the highest mean mastery down.
const (
	GradeExpert       = "Expert"
	GradeAdvanced     = "Advanced"
	GradeIntermediate = "Intermediate"
	GradeBeginner     = "Beginner"
	GradeNew          = "New"
)

// Strength and weakness cut-offs. Skills strictly between them are listed
// in neither.
const (
	StrengthLevel = 0.7
	WeaknessLevel = 0.4
)

// SkillLevel is one skill in a strength or weakness list.
type SkillLevel struct {
	Skill string  `json:"skill"`
	Level float64 `json:"level"`
}

// Summary counts attempts.
type Summary struct {
	TotalAttempts      int `json:"total_attempts"`
	SuccessfulAttempts int `json:"successful_attempts"`
	TotalHintsUsed     int `json:"total_hints_used"`
}

// CodeQuality holds averaged analyzer scores.
type CodeQuality struct {
	AvgStyle                  float64 `json:"avg_style"`
	AvgPEP8                   float64 `json:"avg_pep8"`
	AvgOptimal                float64 `json:"avg_optimal"`
	AvgChatGPTStyle           float64 `json:"avg_chatgpt_style"`
	NonOptimalComplexityCount int     `json:"nonoptimal_complexity_count"`
}

// Report is the learner-facing projection.
type Report struct {
	LearnerID     string       `json:"learner_id"`
	MeanMastery   float64      `json:"mean_mastery"`
	Grade         string       `json:"overall_grade"`
	Strengths     []SkillLevel `json:"strengths"`
	Weaknesses    []SkillLevel `json:"weaknesses"`
	Summary       Summary      `json:"summary"`
	CodeQuality   CodeQuality  `json:"code_quality_metrics"`
	HumanFeedback string       `json:"human_feedback,omitempty"`
}

// Input is everything Aggregate reads.
type Input struct {
	LearnerID string
	Levels    []mastery.SkillLevel
	Summary   Summary
	Quality   CodeQuality
}

// Aggregate builds a report. It has no side effects.
func Aggregate(in Input) Report {
	r := Report{
		LearnerID:  in.LearnerID,
		Strengths:  []SkillLevel{},
		Weaknesses: []SkillLevel{},
		Summary:    in.Summary,
		CodeQuality: CodeQuality{
			AvgStyle:                  round2(in.Quality.AvgStyle),
			AvgPEP8:                   round2(in.Quality.AvgPEP8),
			AvgOptimal:                round2(in.Quality.AvgOptimal),
			AvgChatGPTStyle:           round2(in.Quality.AvgChatGPTStyle),
			NonOptimalComplexityCount: in.Quality.NonOptimalComplexityCount,
		},
	}

	var sum float64
	for _, l := range in.Levels {
		sum += l.Mastery
		switch {
		case l.Mastery >= StrengthLevel:
			r.Strengths = append(r.Strengths, SkillLevel{Skill: l.Skill, Level: round2(l.Mastery)})
		case l.Mastery <= WeaknessLevel:
			r.Weaknesses = append(r.Weaknesses, SkillLevel{Skill: l.Skill, Level: round2(l.Mastery)})
		}
	}
	if len(in.Levels) > 0 {
		r.MeanMastery = sum / float64(len(in.Levels))
	}
	r.Grade = Grade(r.MeanMastery)

	bySkill := func(s []SkillLevel) func(i, j int) bool {
		return func(i, j int) bool { return s[i].Skill < s[j].Skill }
	}
	sort.Slice(r.Strengths, bySkill(r.Strengths))
	sort.Slice(r.Weaknesses, bySkill(r.Weaknesses))
	return r
}

// Grade classifies a mean mastery.
func Grade(mean float64) string {
	switch {
	case mean >= 0.8:
		return GradeExpert
	case mean >= 0.6:
		return GradeAdvanced
	case mean >= 0.4:
		return GradeIntermediate
	case mean >= 0.2:
		return GradeBeginner
	default:
		return GradeNew
	}
}

// nonOptimalMarkers flag a quadratic or worse time complexity.
var nonOptimalMarkers = []string{"n^2", "n^3", "2^n", "n²", "n³", "n!", "exponential", "factorial"}

// NonOptimal reports whether a time complexity is quadratic or worse.
func NonOptimal(complexity string) bool {
	c := strings.ToLower(complexity)
	for _, m := range nonOptimalMarkers {
		if strings.Contains(c, m) {
			return true
		}
	}
	return false
}

// FromStats builds aggregator input from stored attempt statistics and
// mastery levels. A nil stats value means no attempts.
func FromStats(learnerID string, stats *store.AttemptStats, levels []mastery.SkillLevel) Input {
	in := Input{LearnerID: learnerID, Levels: levels}
	if stats == nil {
		return in
	}
	in.Summary = Summary{
		TotalAttempts:      stats.TotalAttempts,
		SuccessfulAttempts: stats.SuccessfulAttempts,
		TotalHintsUsed:     stats.TotalHintsUsed,
	}
	in.Quality = CodeQuality{
		AvgStyle:        stats.AvgStyle,
		AvgPEP8:         stats.AvgPEP8,
		AvgOptimal:      stats.AvgOptimal,
		AvgChatGPTStyle: stats.AvgChatGPTStyle,
	}
	for _, tc := range stats.TimeComplexities {
		if NonOptimal(tc) {
			in.Quality.NonOptimalComplexityCount++
		}
	}
	return in
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
