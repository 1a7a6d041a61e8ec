package skills

import (
	"fmt"
	"strings"
)

// validateSkills performs all structural checks on the given skill set.
// Returns a combined error describing all problems found, or nil if valid.
func validateSkills(skills []Skill) error {
	var errs []string

	idSet := make(map[string]bool, len(skills))
	groupSet := make(map[Group]bool)

	for _, s := range skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
		}
		if idSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		if strings.TrimSpace(s.Description) == "" {
			errs = append(errs, fmt.Sprintf("skill %q has no description", s.ID))
		}
		idSet[s.ID] = true
		groupSet[s.Group] = true
	}

	for _, s := range skills {
		for _, p := range s.Prerequisites {
			if !idSet[p] {
				errs = append(errs, fmt.Sprintf("skill %q references nonexistent prerequisite %q", s.ID, p))
			}
		}
	}

	// Cycle check: a valid order must visit every skill.
	if ordered := buildCatalog(skills).topoOrder; len(ordered) < len(skills) {
		seen := make(map[string]bool, len(ordered))
		for _, s := range ordered {
			seen[s.ID] = true
		}
		var cycle []string
		for _, s := range skills {
			if !seen[s.ID] {
				cycle = append(cycle, s.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycle, ", ")))
	}

	for _, g := range AllGroups() {
		if !groupSet[g] {
			errs = append(errs, fmt.Sprintf("group %q has no skills", g))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
