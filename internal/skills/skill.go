package skills

// Group clusters related skills for display.
type Group string

const (
	GroupDataStructures Group = "data-structures"
	GroupControl        Group = "control-and-functions"
	GroupIdioms         Group = "idioms"
)

// AllGroups returns all groups in display order.
func AllGroups() []Group {
	return []Group{GroupDataStructures, GroupControl, GroupIdioms}
}

// GroupDisplayName returns a human-readable name for a group.
func GroupDisplayName(g Group) string {
	switch g {
	case GroupDataStructures:
		return "Data Structures"
	case GroupControl:
		return "Control Flow & Functions"
	case GroupIdioms:
		return "Pythonic Idioms"
	default:
		return string(g)
	}
}

// Skill is one practisable Python topic.
type Skill struct {
	ID          string
	Name        string
	Description string
	Group       Group
	Keywords    []string

	// Prerequisites only order the catalog for display. Selection never
	// locks a skill behind them.
	Prerequisites []string
}

// seed is the built-in catalog in selection order.
var seed = []Skill{
	{
		ID:          "lists",
		Name:        "Lists",
		Description: "Working with Python lists: indexing, slicing, append/extend, sorting and in-place mutation.",
		Group:       GroupDataStructures,
		Keywords:    []string{"list", "slice", "append", "sort"},
	},
	{
		ID:          "strings",
		Name:        "Strings",
		Description: "String manipulation: slicing, formatting, split/join, searching and character-level processing.",
		Group:       GroupDataStructures,
		Keywords:    []string{"str", "split", "join", "format"},
	},
	{
		ID:          "dicts",
		Name:        "Dictionaries",
		Description: "Mapping types: lookups, counting, grouping, dict.get/setdefault and iteration over items.",
		Group:       GroupDataStructures,
		Keywords:    []string{"dict", "keys", "items", "counter"},
	},
	{
		ID:          "sets",
		Name:        "Sets",
		Description: "Set operations: membership, union, intersection, difference and deduplication.",
		Group:       GroupDataStructures,
		Keywords:    []string{"set", "union", "intersection", "unique"},
	},
	{
		ID:          "functions",
		Name:        "Functions",
		Description: "Defining functions: parameters, defaults, *args/**kwargs, return values, closures and recursion.",
		Group:       GroupControl,
		Keywords:    []string{"def", "return", "lambda", "recursion"},
	},
	{
		ID:            "algorithms",
		Name:          "Algorithms",
		Description:   "Classic algorithmic problems: searching, sorting, two pointers, sliding windows and complexity trade-offs.",
		Group:         GroupControl,
		Keywords:      []string{"search", "sort", "two pointers", "complexity"},
		Prerequisites: []string{"lists", "functions"},
	},
	{
		ID:            "list_comprehensions",
		Name:          "List Comprehensions",
		Description:   "Comprehensions for lists, dicts and sets including filtering and nested comprehensions.",
		Group:         GroupIdioms,
		Keywords:      []string{"comprehension", "filter", "map"},
		Prerequisites: []string{"lists"},
	},
	{
		ID:            "iterables",
		Name:          "Iterables",
		Description:   "Iteration protocol: generators, yield, enumerate/zip, itertools and lazy evaluation.",
		Group:         GroupIdioms,
		Keywords:      []string{"iterator", "generator", "yield", "itertools"},
		Prerequisites: []string{"lists", "functions"},
	},
}
