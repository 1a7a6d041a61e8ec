// Package prompt reads solutions line by line, for terminals without a
// full-screen editor and for piped input.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/codetrain/internal/session"
)

// Commands recognized on a line of their own.
const (
	CmdSubmit = ":submit"
	CmdHint   = ":hint"
	CmdQuit   = ":quit"
	CmdClear  = ":clear"
)

// Plain collects code until a command line. End of input submits what was
// typed, or quits when nothing was.
type Plain struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPlain reads from in and writes instructions to out.
func NewPlain(in io.Reader, out io.Writer) *Plain {
	return &Plain{scanner: bufio.NewScanner(in), out: out}
}

func (p *Plain) Prompt(ctx context.Context, c *session.Cycle, draft string) (session.Reply, error) {
	fmt.Fprintf(p.out, "Type your solution. End with %s", CmdSubmit)
	if c.HintsLeft > 0 {
		fmt.Fprintf(p.out, ", %s (%d left)", CmdHint, c.HintsLeft)
	}
	fmt.Fprintf(p.out, ", %s or %s.\n", CmdClear, CmdQuit)
	if draft != "" {
		fmt.Fprintf(p.out, "Your draft is kept; new lines are appended.\n")
	}

	var b strings.Builder
	b.WriteString(draft)
	appendLine := func(line string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}

	for p.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return session.Reply{}, err
		}
		line := p.scanner.Text()
		switch strings.TrimSpace(line) {
		case CmdSubmit:
			return session.Reply{Action: session.ActionSubmit, Code: b.String()}, nil
		case CmdHint:
			return session.Reply{Action: session.ActionHint, Code: b.String()}, nil
		case CmdQuit:
			return session.Reply{Action: session.ActionQuit, Code: b.String()}, nil
		case CmdClear:
			b.Reset()
		default:
			appendLine(line)
		}
	}
	if err := p.scanner.Err(); err != nil {
		return session.Reply{}, fmt.Errorf("read input: %w", err)
	}

	if strings.TrimSpace(b.String()) == "" {
		return session.Reply{Action: session.ActionQuit}, nil
	}
	return session.Reply{Action: session.ActionSubmit, Code: b.String()}, nil
}
