package mastery

import (
	"errors"
	"math"
	"testing"

	"github.com/abhisek/codetrain/internal/difficulty"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestUpdate_CorrectFromDefault(t *testing.T) {
	m := New(DefaultParams())
	got, err := m.Update("x", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(got, 0.685, 0.001) {
		t.Errorf("got %.4f, want 0.685", got)
	}
	if m.Mastery("x") != got {
		t.Errorf("stored mastery %.4f != returned %.4f", m.Mastery("x"), got)
	}
}

func TestUpdate_IncorrectFromDefault(t *testing.T) {
	m := New(DefaultParams())
	got, err := m.Update("x", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(got, 0.2227, 0.001) {
		t.Errorf("got %.4f, want 0.2227", got)
	}
}

func TestUpdate_BoundsAcrossPriors(t *testing.T) {
	p := DefaultParams()
	for i := 0; i <= 100; i++ {
		prior := float64(i) / 100
		m := FromLevels(p, []SkillLevel{{Skill: "s", Mastery: prior}})

		up, err := m.Update("s", true)
		if err != nil {
			t.Fatalf("prior %.2f: unexpected error: %v", prior, err)
		}
		if up < 0 || up > 1 {
			t.Fatalf("prior %.2f: correct update %.4f outside [0,1]", prior, up)
		}
		if up > prior+MaxRise+p.PT+1e-9 {
			t.Errorf("prior %.2f: correct update %.4f rose more than the cap allows", prior, up)
		}
		if up < prior-1e-9 {
			t.Errorf("prior %.2f: correct update %.4f decreased mastery", prior, up)
		}

		m = FromLevels(p, []SkillLevel{{Skill: "s", Mastery: prior}})
		down, err := m.Update("s", false)
		if err != nil {
			t.Fatalf("prior %.2f: unexpected error: %v", prior, err)
		}
		if down < 0 || down > 1 {
			t.Fatalf("prior %.2f: incorrect update %.4f outside [0,1]", prior, down)
		}
		if down > prior+p.PT*(1-prior)+1e-9 {
			t.Errorf("prior %.2f: incorrect update %.4f exceeds headroom bound", prior, down)
		}
	}
}

func TestUpdate_DegenerateHoldsMastery(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		prior   float64
		correct bool
	}{
		{"certain slip, mastered prior, incorrect", Params{PL0: 0.5, PT: 0.1, PS: 0, PG: 1}, 0, false},
		{"zero guess, zero prior, correct", Params{PL0: 0.5, PT: 0.1, PS: 0.15, PG: 0}, 0, true},
		{"slip one, prior one, correct", Params{PL0: 0.5, PT: 0.1, PS: 1, PG: 0.05}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromLevels(tt.params, []SkillLevel{{Skill: "s", Mastery: tt.prior}})
			got, err := m.Update("s", tt.correct)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if got != tt.prior || m.Mastery("s") != tt.prior {
				t.Errorf("mastery changed: returned %v, stored %v, prior %v", got, m.Mastery("s"), tt.prior)
			}
		})
	}
}

func TestUpdate_DegenerateLeavesUnseenSkillUnseen(t *testing.T) {
	m := FromLevels(Params{PL0: 0, PT: 0.1, PS: 0.15, PG: 0}, []SkillLevel{{Skill: "old", Mastery: 0.4}})
	if _, err := m.Update("new", true); err == nil {
		t.Fatal("expected ConfigurationError")
	}
	if m.Observed("new") {
		t.Fatal("failed update registered the skill")
	}
	if m.Len() != 1 {
		t.Fatalf("got %d observed skills, want 1", m.Len())
	}
	if got, _ := m.RecommendedSkill(); got != "old" {
		t.Errorf("recommended %q, want old", got)
	}
}

func TestRecommendedSkill(t *testing.T) {
	m := New(DefaultParams())
	if _, ok := m.RecommendedSkill(); ok {
		t.Fatal("fresh model should have no recommendation")
	}

	m.Update("a", true)
	m.Update("b", false)
	m.Update("c", true)

	got, ok := m.RecommendedSkill()
	if !ok || got != "b" {
		t.Fatalf("got %q (%t), want b", got, ok)
	}
	again, _ := m.RecommendedSkill()
	if again != got {
		t.Errorf("recommendation not idempotent: %q then %q", got, again)
	}
}

func TestRecommendedSkill_TiesGoToFirstObserved(t *testing.T) {
	m := FromLevels(DefaultParams(), []SkillLevel{
		{Skill: "sets", Mastery: 0.5},
		{Skill: "dicts", Mastery: 0.5},
		{Skill: "lists", Mastery: 0.5},
	})
	got, _ := m.RecommendedSkill()
	if got != "sets" {
		t.Errorf("got %q, want sets", got)
	}
}

func TestDifficultyRange_UsesPriorForUnseen(t *testing.T) {
	m := New(DefaultParams())
	if got := m.DifficultyRange("unseen"); got != difficulty.ForMastery(0.5) {
		t.Errorf("got %+v", got)
	}
	m.Update("x", true)
	if got := m.DifficultyRange("x"); got != (difficulty.Band{Min: 0.5, Max: 0.7}) {
		t.Errorf("got %+v, want medium band", got)
	}
}

func TestFromLevels_ClampsAndKeepsOrder(t *testing.T) {
	m := FromLevels(DefaultParams(), []SkillLevel{
		{Skill: "b", Mastery: 1.7},
		{Skill: "a", Mastery: -0.2},
		{Skill: "b", Mastery: 0.1},
	})
	levels := m.Levels()
	if len(levels) != 2 {
		t.Fatalf("got %d levels, want 2", len(levels))
	}
	if levels[0].Skill != "b" || levels[0].Mastery != 1 {
		t.Errorf("levels[0] = %+v", levels[0])
	}
	if levels[1].Skill != "a" || levels[1].Mastery != 0 {
		t.Errorf("levels[1] = %+v", levels[1])
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	bad := []Params{
		{PL0: -0.1, PT: 0.1, PS: 0.1, PG: 0.1},
		{PL0: 0.5, PT: 1.1, PS: 0.1, PG: 0.1},
		{PL0: 0.5, PT: 0.1, PS: math.NaN(), PG: 0.1},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}
}
