package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/ui/theme"
)

// MultiChoice is a single-answer selector. Options can be chosen with the
// arrow keys plus enter, or by pressing their letter.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a selector. CorrectIndex is the position of
// correct in options, or -1 when it is not among them.
func NewMultiChoice(question string, options []string, correct string) MultiChoice {
	ci := -1
	for i, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(correct)) {
			ci = i
			break
		}
	}
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: ci,
		ChosenIndex:  -1,
	}
}

func label(i int) string { return string(rune('A' + i)) }

// Update handles navigation and selection. Input is ignored once submitted.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.choose(m.Selected)
	default:
		for i := range m.Options {
			if strings.EqualFold(key, label(i)) {
				m.choose(i)
			}
		}
	}
	return m, nil
}

func (m *MultiChoice) choose(i int) {
	m.Selected = i
	m.ChosenIndex = i
	m.Submitted = true
}

// Chosen returns the text of the picked option.
func (m MultiChoice) Chosen() string {
	if m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return ""
	}
	return m.Options[m.ChosenIndex]
}

// View renders the question and options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s) %s", prefix, label(i), opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			line = theme.Done.Bold(true).Render(line)
		case m.Submitted && i == m.ChosenIndex:
			line = theme.Failed.Render(line)
		case m.Submitted:
			line = theme.Dim.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Body.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// IsCorrect reports whether the submitted choice is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
