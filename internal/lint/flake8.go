package lint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Flake8 runs the flake8 executable on a temporary file.
type Flake8 struct {
	Binary string
}

// Available reports whether the binary is on PATH.
func (f *Flake8) Available() bool {
	_, err := exec.LookPath(f.Binary)
	return err == nil
}

func (f *Flake8) Score(ctx context.Context, code string) (*Result, error) {
	if Blank(code) {
		return &Result{Score: 0, Tool: "flake8"}, nil
	}

	tmp, err := os.CreateTemp("", "codetrain-*.py")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.Binary, tmp.Name(), fmt.Sprintf("--max-line-length=%d", MaxLineLength))
	out, err := cmd.Output()
	if err != nil {
		// flake8 exits 1 when it found issues.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, fmt.Errorf("run %s: %w", f.Binary, err)
		}
	}

	return newResult("flake8", parseFlake8(string(out))), nil
}

// parseFlake8 reads "path:line:col: CODE message" lines.
func parseFlake8(out string) []Issue {
	var issues []Issue
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// The path may itself contain colons, so split from the right.
		parts := strings.SplitN(line, ": ", 2)
		if len(parts) != 2 {
			continue
		}
		loc := strings.Split(parts[0], ":")
		if len(loc) < 3 {
			continue
		}
		ln, _ := strconv.Atoi(loc[len(loc)-2])
		col, _ := strconv.Atoi(loc[len(loc)-1])
		code, msg, _ := strings.Cut(parts[1], " ")
		issues = append(issues, Issue{Line: ln, Column: col, Code: code, Message: msg})
	}
	return issues
}
