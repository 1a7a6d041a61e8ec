// Package selector picks the next skill to practise from a learner's
// mastery model.
package selector

import (
	"errors"
	"math/rand/v2"

	"github.com/abhisek/codetrain/internal/difficulty"
	"github.com/abhisek/codetrain/internal/mastery"
)

// Default thresholds.
const (
	DefaultCritical = 0.20
	DefaultHigh     = 0.90
)

// Regime names the rule that produced a decision.
type Regime string

const (
	RegimeNormal            Regime = "NORMAL"
	RegimeCriticalAvoidance Regime = "CRITICAL_AVOIDANCE"
	RegimeMasteredAvoidance Regime = "MASTERED_AVOIDANCE"
	RegimeRandom            Regime = "RANDOM"
)

// ErrEmptyUniverse is returned when there is no skill to choose from.
var ErrEmptyUniverse = errors.New("selector: empty skill universe")

// Decision is the outcome of one selection.
type Decision struct {
	Skill   string
	Regime  Regime
	Mastery float64
	Band    difficulty.Band
}

// Selector applies the avoidance policy. Only the random fallbacks consume
// the random source.
type Selector struct {
	Critical float64
	High     float64
	rng      *rand.Rand
}

// New creates a selector with the given thresholds and random source.
// A nil rng is replaced by a randomly seeded one.
func New(critical, high float64, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{Critical: critical, High: high, rng: rng}
}

// NewDefault creates a selector with the default thresholds.
func NewDefault(rng *rand.Rand) *Selector {
	return New(DefaultCritical, DefaultHigh, rng)
}

type candidate struct {
	skill   string
	mastery float64
}

// Select chooses the next skill from universe. Skills the model has not
// seen are evaluated at pL0. Ties among candidates go to universe order.
func (s *Selector) Select(m *mastery.Model, universe []string) (Decision, error) {
	if len(universe) == 0 {
		return Decision{}, ErrEmptyUniverse
	}

	lowest, ok := m.RecommendedSkill()
	if !ok {
		return s.decide(m, s.pick(universe), RegimeRandom), nil
	}
	low := m.Mastery(lowest)

	switch {
	case low < s.Critical:
		return s.decide(m, s.avoidCritical(m, lowest, universe), RegimeCriticalAvoidance), nil
	case low >= s.High:
		var pool []candidate
		for _, c := range s.others(m, lowest, universe) {
			if c.mastery < s.High {
				pool = append(pool, c)
			}
		}
		if len(pool) == 0 {
			return s.decide(m, s.pick(universe), RegimeMasteredAvoidance), nil
		}
		return s.decide(m, minimum(pool).skill, RegimeMasteredAvoidance), nil
	default:
		return s.decide(m, lowest, RegimeNormal), nil
	}
}

func (s *Selector) avoidCritical(m *mastery.Model, critical string, universe []string) string {
	var remaining, healthy []candidate
	for _, c := range s.others(m, critical, universe) {
		if c.mastery >= s.High {
			continue
		}
		remaining = append(remaining, c)
		if c.mastery >= s.Critical {
			healthy = append(healthy, c)
		}
	}

	switch {
	case len(remaining) == 0:
		return critical
	case len(healthy) > 0:
		return minimum(healthy).skill
	}

	// Everything left is critical: take the widest recommended band.
	best := remaining[0]
	bestMax := difficulty.ForMastery(best.mastery).Max
	for _, c := range remaining[1:] {
		if mx := difficulty.ForMastery(c.mastery).Max; mx > bestMax {
			best, bestMax = c, mx
		}
	}
	return best.skill
}

// others returns the universe minus skip, deduplicated, in universe order.
func (s *Selector) others(m *mastery.Model, skip string, universe []string) []candidate {
	seen := make(map[string]bool, len(universe))
	out := make([]candidate, 0, len(universe))
	for _, id := range universe {
		if id == skip || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, candidate{skill: id, mastery: m.Mastery(id)})
	}
	return out
}

func (s *Selector) pick(universe []string) string {
	return universe[s.rng.IntN(len(universe))]
}

func (s *Selector) decide(m *mastery.Model, skill string, regime Regime) Decision {
	return Decision{
		Skill:   skill,
		Regime:  regime,
		Mastery: m.Mastery(skill),
		Band:    m.DifficultyRange(skill),
	}
}

func minimum(cs []candidate) candidate {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.mastery < best.mastery {
			best = c
		}
	}
	return best
}
