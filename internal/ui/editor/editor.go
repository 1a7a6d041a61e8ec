// Package editor is a small terminal code editor for submitting solutions.
package editor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/ui/theme"
)

const (
	defaultWidth = 80
	maxWidth     = 110
	indent       = "    "
)

// Model edits one draft until the learner submits, asks for a hint or
// quits.
type Model struct {
	area      textarea.Model
	title     string
	hintsLeft int
	reply     session.Reply
	decided   bool
}

// New creates an editor seeded with draft.
func New(title, draft string, hintsLeft int) Model {
	ta := textarea.New()
	ta.Placeholder = "# write your solution here"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(14)
	ta.SetValue(draft)
	ta.Focus()

	return Model{area: ta, title: title, hintsLeft: hintsLeft}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.area.SetWidth(min(max(msg.Width-4, 20), maxWidth))
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+s":
			return m.decide(session.ActionSubmit)
		case "ctrl+t":
			return m.decide(session.ActionHint)
		case "esc", "ctrl+c":
			return m.decide(session.ActionQuit)
		case "tab":
			m.area.InsertString(indent)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m Model) decide(a session.Action) (tea.Model, tea.Cmd) {
	m.reply = session.Reply{Action: a, Code: m.area.Value()}
	m.decided = true
	return m, tea.Quit
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	if m.decided {
		return ""
	}
	keys := []string{"ctrl+s submit", "esc quit"}
	if m.hintsLeft > 0 {
		keys = append([]string{fmt.Sprintf("ctrl+t hint (%d left)", m.hintsLeft)}, keys...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(m.title),
		theme.Editor.Render(m.area.View()),
		theme.Hint.Render(strings.Join(keys, " · ")),
	)
}

// Reply returns the learner's decision. It is only meaningful after the
// program has exited.
func (m Model) Reply() session.Reply {
	if !m.decided {
		return session.Reply{Action: session.ActionQuit, Code: m.area.Value()}
	}
	return m.reply
}

// Prompter collects replies with the editor. Nil In and Out use the
// terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompter) Prompt(ctx context.Context, c *session.Cycle, draft string) (session.Reply, error) {
	title := fmt.Sprintf("Solution for task %d/%d", c.Number, c.Of)
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(New(title, draft, c.HintsLeft), opts...).Run()
	if err != nil {
		return session.Reply{}, fmt.Errorf("editor: %w", err)
	}
	return final.(Model).Reply(), nil
}
