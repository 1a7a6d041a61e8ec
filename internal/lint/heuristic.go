package lint

import (
	"context"
	"strings"
)

// Heuristic approximates a handful of pycodestyle checks without any
// external tool. It also flags unbalanced brackets and unterminated
// strings as E999.
type Heuristic struct{}

func (Heuristic) Score(_ context.Context, code string) (*Result, error) {
	if Blank(code) {
		return &Result{Score: 0, Tool: "heuristic"}, nil
	}

	var issues []Issue
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		n := i + 1
		if len(line) > MaxLineLength {
			issues = append(issues, Issue{Line: n, Column: MaxLineLength + 1, Code: "E501", Message: "line too long"})
		}
		if strings.TrimRight(line, " \t") != line {
			issues = append(issues, Issue{Line: n, Column: len(strings.TrimRight(line, " \t")) + 1, Code: "W291", Message: "trailing whitespace"})
		}
		if strings.HasPrefix(line, "\t") {
			issues = append(issues, Issue{Line: n, Column: 1, Code: "W191", Message: "indentation contains tabs"})
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if strings.TrimSpace(line) != "" && indent%4 != 0 && !strings.HasPrefix(line, "\t") {
			issues = append(issues, Issue{Line: n, Column: indent + 1, Code: "E111", Message: "indentation is not a multiple of 4"})
		}
	}
	if !strings.HasSuffix(code, "\n") {
		issues = append(issues, Issue{Line: len(lines), Column: len(lines[len(lines)-1]) + 1, Code: "W292", Message: "no newline at end of file"})
	}
	if ln, ok := balanced(code); !ok {
		issues = append(issues, Issue{Line: ln, Column: 1, Code: "E999", Message: "SyntaxError: unbalanced brackets or quotes"})
	}

	return newResult("heuristic", issues), nil
}

// balanced checks brackets and quotes, ignoring comments. It returns the
// line of the first problem.
func balanced(code string) (int, bool) {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune
	line := 1
	var quote []rune

	rs := []rune(code)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '\n' {
			line++
		}
		if quote != nil {
			switch {
			case r == '\\':
				i++
				if i < len(rs) && rs[i] == '\n' {
					line++
				}
			case hasPrefixAt(rs, i, quote):
				i += len(quote) - 1
				quote = nil
			case r == '\n' && len(quote) == 1:
				return line - 1, false
			}
			continue
		}
		switch r {
		case '#':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			i--
		case '"', '\'':
			quote = []rune{r}
			if triple := []rune{r, r, r}; hasPrefixAt(rs, i, triple) {
				quote = triple
			}
			i += len(quote) - 1
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return line, false
			}
			stack = stack[:len(stack)-1]
		}
	}
	if quote != nil || len(stack) > 0 {
		return line, false
	}
	return 0, true
}

func hasPrefixAt(rs []rune, i int, prefix []rune) bool {
	if len(rs)-i < len(prefix) {
		return false
	}
	for j, r := range prefix {
		if rs[i+j] != r {
			return false
		}
	}
	return true
}
