package skills

import (
	"fmt"
	"slices"
	"sort"
)

// catalog holds the skill set with precomputed indices.
type catalog struct {
	skills    []Skill
	byID      map[string]*Skill
	byGroup   map[Group][]Skill
	topoOrder []Skill
}

// c is the package-level catalog built from seed.
var c = buildCatalog(seed)

// buildCatalog indexes skills and computes a topological order (Kahn's
// algorithm) with ties broken by declaration order.
func buildCatalog(skills []Skill) *catalog {
	ct := &catalog{
		skills:  skills,
		byID:    make(map[string]*Skill, len(skills)),
		byGroup: make(map[Group][]Skill),
	}

	declared := make(map[string]int, len(skills))
	for i := range ct.skills {
		ct.byID[ct.skills[i].ID] = &ct.skills[i]
		declared[ct.skills[i].ID] = i
		ct.byGroup[ct.skills[i].Group] = append(ct.byGroup[ct.skills[i].Group], ct.skills[i])
	}

	dependents := make(map[string][]string)
	inDegree := make(map[string]int, len(skills))
	for _, s := range skills {
		inDegree[s.ID] = len(s.Prerequisites)
		for _, p := range s.Prerequisites {
			dependents[p] = append(dependents[p], s.ID)
		}
	}

	var queue []string
	for _, s := range skills {
		if inDegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if s, ok := ct.byID[id]; ok {
			ct.topoOrder = append(ct.topoOrder, *s)
		}
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
		sort.SliceStable(queue, func(i, j int) bool {
			return declared[queue[i]] < declared[queue[j]]
		})
	}

	return ct
}

// Get returns a skill by ID, or error if not found.
func Get(id string) (Skill, error) {
	s, ok := c.byID[id]
	if !ok {
		return Skill{}, fmt.Errorf("skill not found: %q", id)
	}
	return *s, nil
}

// Known reports whether id names a catalog skill.
func Known(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every skill in selection order.
func All() []Skill {
	return slices.Clone(c.skills)
}

// IDs returns the skill universe in selection order.
func IDs() []string {
	ids := make([]string, len(c.skills))
	for i, s := range c.skills {
		ids[i] = s.ID
	}
	return ids
}

// ByGroup returns the skills of one group in selection order.
func ByGroup(g Group) []Skill {
	return slices.Clone(c.byGroup[g])
}

// TopologicalOrder returns the skills with prerequisites first.
func TopologicalOrder() []Skill {
	return slices.Clone(c.topoOrder)
}

// Describe returns the prompt description of a skill, falling back to the
// raw ID for skills outside the catalog.
func Describe(id string) string {
	if s, ok := c.byID[id]; ok {
		return s.Description
	}
	return id
}

// Validate checks the catalog for structural issues.
func Validate() error {
	return validateSkills(c.skills)
}
