package mastery

import (
	"fmt"
	"math"
)

// MaxRise caps how far a single correct observation can lift mastery
// before the learning transition is applied.
const MaxRise = 0.15

// Params are the BKT parameters shared by every skill of a learner.
type Params struct {
	PL0 float64 // initial prior
	PT  float64 // learning transition
	PS  float64 // slip
	PG  float64 // guess
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{PL0: 0.5, PT: 0.1, PS: 0.15, PG: 0.05}
}

// Validate rejects parameters outside [0,1] or NaN. Values that are in
// range but degenerate (pS=1, pG=1) pass and surface as a
// ConfigurationError on update.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"pL0", p.PL0}, {"pT", p.PT}, {"pS", p.PS}, {"pG", p.PG}} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("BKT parameter %s must be in [0,1], got %v", f.name, f.v)
		}
	}
	return nil
}

// ConfigurationError reports an update whose posterior is undefined for the
// configured parameters. Mastery is left unchanged.
type ConfigurationError struct {
	Skill   string
	Correct bool
	Params  Params
	Mastery float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("degenerate BKT update for %q (correct=%t, pL=%.4f, pS=%v, pG=%v): mastery held unchanged",
		e.Skill, e.Correct, e.Mastery, e.Params.PS, e.Params.PG)
}
