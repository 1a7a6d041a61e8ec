// Package printer writes colored CLI output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// NO_COLOR disables escape codes even on a TTY.
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
	faint  = color.New(color.Faint)
)

// Printer writes messages to Out and errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New creates a printer on the given writers.
func New(out, errw io.Writer) *Printer {
	return &Printer{Out: out, Err: errw}
}

// Default writes to stdout and stderr.
var Default = New(os.Stdout, os.Stderr)

// Success prints a message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.Out, "✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.Out, format, a...)
}

// Warning prints a message in yellow with a warning prefix.
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.Out, "⚠️  %s", fmt.Sprintf(format, a...))
}

// Step prints a step message with emphasis.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.Out, "→ %s", fmt.Sprintf(format, a...))
}

// Heading prints a bold line followed by a rule of the same width.
func (p *Printer) Heading(title string) {
	bold.Fprintln(p.Out, title)
	fmt.Fprintln(p.Out, strings.Repeat("─", len([]rune(title))))
}

// Block prints text indented by two spaces, dimmed.
func (p *Printer) Block(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		faint.Fprintf(p.Out, "  %s\n", line)
	}
}

// Error prints a titled error with an explanation and suggestions to Err,
// and returns a plain error carrying the title for cobra.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	red.Fprintf(p.Err, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(p.Err, "%s\n", explanation)
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(p.Err, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(p.Err, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(p.Err, "Either:\n")
			for i, s := range suggestions {
				fmt.Fprintf(p.Err, "  %d. %s\n", i+1, s)
			}
		}
	}

	return fmt.Errorf("%s", title)
}

// Package-level helpers on Default.

func Success(format string, a ...any) { Default.Success(format, a...) }
func Info(format string, a ...any)    { Default.Info(format, a...) }
func Warning(format string, a ...any) { Default.Warning(format, a...) }
func Step(format string, a ...any)    { Default.Step(format, a...) }

// Error prints to stderr via Default.
func Error(title, explanation string, suggestions []string) error {
	return Default.Error(title, explanation, suggestions)
}
