// Package mastery implements per-learner Bayesian Knowledge Tracing.
package mastery

import (
	"math"

	"github.com/abhisek/codetrain/internal/difficulty"
)

// SkillLevel is one skill's mastery probability.
type SkillLevel struct {
	Skill   string
	Mastery float64
}

// Model holds one learner's mastery per skill. It is not safe for
// concurrent use; sessions serialize access per learner.
type Model struct {
	params Params
	levels map[string]float64
	order  []string // first-observed order
}

// New creates an empty model.
func New(params Params) *Model {
	return &Model{params: params, levels: make(map[string]float64)}
}

// FromLevels restores a model from persisted levels, keeping their order
// as the first-observed order. Values are clamped to [0,1].
func FromLevels(params Params, levels []SkillLevel) *Model {
	m := New(params)
	for _, l := range levels {
		if _, ok := m.levels[l.Skill]; ok {
			continue
		}
		m.order = append(m.order, l.Skill)
		m.levels[l.Skill] = clamp(l.Mastery)
	}
	return m
}

// Params returns the model's parameters.
func (m *Model) Params() Params {
	return m.params
}

// Mastery returns the skill's mastery, or pL0 if unseen.
func (m *Model) Mastery(skill string) float64 {
	if v, ok := m.levels[skill]; ok {
		return v
	}
	return m.params.PL0
}

// Observed reports whether the skill has a recorded mastery.
func (m *Model) Observed(skill string) bool {
	_, ok := m.levels[skill]
	return ok
}

// Len returns the number of observed skills.
func (m *Model) Len() int {
	return len(m.order)
}

// Levels returns a snapshot in first-observed order.
func (m *Model) Levels() []SkillLevel {
	out := make([]SkillLevel, len(m.order))
	for i, s := range m.order {
		out[i] = SkillLevel{Skill: s, Mastery: m.levels[s]}
	}
	return out
}

func (m *Model) set(skill string, v float64) {
	if _, ok := m.levels[skill]; !ok {
		m.order = append(m.order, skill)
	}
	m.levels[skill] = v
}

// Update applies one observation and returns the new mastery. When the
// posterior is undefined it returns the unchanged mastery together with a
// *ConfigurationError and leaves the model untouched, so an unseen skill
// stays unseen.
func (m *Model) Update(skill string, correct bool) (float64, error) {
	pL := m.Mastery(skill)
	p := m.params

	var num, den float64
	if correct {
		num = pL * (1 - p.PS)
		den = num + (1-pL)*p.PG
	} else {
		num = pL * p.PS
		den = num + (1-pL)*(1-p.PG)
	}

	post := num / den
	if den == 0 || !finite(den) || !finite(post) {
		return pL, &ConfigurationError{Skill: skill, Correct: correct, Params: p, Mastery: pL}
	}
	if correct {
		post = math.Min(pL+MaxRise, post)
	}

	next := clamp(post + (1-post)*p.PT)
	m.set(skill, next)
	return next, nil
}

// RecommendedSkill returns the observed skill with minimum mastery. Ties go
// to the skill observed first. It reports false for a fresh learner.
func (m *Model) RecommendedSkill() (string, bool) {
	if len(m.order) == 0 {
		return "", false
	}
	best := m.order[0]
	for _, s := range m.order[1:] {
		if m.levels[s] < m.levels[best] {
			best = s
		}
	}
	return best, true
}

// DifficultyRange returns the difficulty band for the skill's current
// mastery, or for pL0 if unseen.
func (m *Model) DifficultyRange(skill string) difficulty.Band {
	return difficulty.ForMastery(m.Mastery(skill))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
