// Package difficulty maps mastery probabilities to difficulty directives.
//
// Three mappings coexist and are used by different consumers: the five-tier
// continuous band, the coarse label sent to the task generator, and the
// level set used to query stored tasks. Their breakpoints differ.
package difficulty

import "math"

// Labels understood by the task store and generator.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

// Band is a recommended difficulty interval in [0,1].
type Band struct {
	Min float64
	Max float64
}

type tier struct {
	below float64
	band  Band
	label string
}

// tiers is ordered by upper mastery bound; the last entry catches the rest.
var tiers = []tier{
	{below: 0.30, band: Band{0.10, 0.30}, label: "easy"},
	{below: 0.60, band: Band{0.20, 0.50}, label: "easy-medium"},
	{below: 0.80, band: Band{0.50, 0.70}, label: "medium"},
	{below: 0.95, band: Band{0.70, 0.90}, label: "medium-hard"},
	{below: math.Inf(1), band: Band{0.80, 1.00}, label: "hard"},
}

// clamp01 maps m into [0,1]; NaN becomes 0.
func clamp01(m float64) float64 {
	if math.IsNaN(m) || m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}

func tierFor(m float64) tier {
	m = clamp01(m)
	for _, t := range tiers {
		if m < t.below {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// ForMastery returns the recommended difficulty band for mastery m.
func ForMastery(m float64) Band {
	b := tierFor(m).band
	if b.Min > b.Max {
		b.Min = b.Max
	}
	return b
}

// TierLabel returns the five-tier label of mastery m.
func TierLabel(m float64) string {
	return tierFor(m).label
}

// Label collapses a band's lower bound into a generation label.
func Label(min float64) string {
	switch {
	case min <= 0.33:
		return Easy
	case min <= 0.66:
		return Medium
	default:
		return Hard
	}
}

// StoreLevels returns the stored-task difficulty labels to query for
// mastery m.
func StoreLevels(m float64) []string {
	m = clamp01(m)
	switch {
	case m < 0.4:
		return []string{Easy}
	case m < 0.6:
		return []string{Easy, Medium}
	case m < 0.8:
		return []string{Medium, Hard}
	default:
		return []string{Hard}
	}
}

// Valid reports whether label is one of the generation labels.
func Valid(label string) bool {
	switch label {
	case Easy, Medium, Hard:
		return true
	}
	return false
}
