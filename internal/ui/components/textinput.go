package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// CommandInput wraps bubbles/textinput with a submit history navigable with
// the up and down keys.
type CommandInput struct {
	Model   textinput.Model
	history []string
	// pos indexes history while browsing; len(history) means the live line.
	pos int
}

// NewCommandInput creates a focused input. suggestions feed tab completion.
func NewCommandInput(placeholder string, width int, suggestions []string) CommandInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 200
	if width > 0 {
		ti.SetWidth(width)
	}
	if len(suggestions) > 0 {
		ti.ShowSuggestions = true
		ti.SetSuggestions(suggestions)
	}
	ti.Focus()
	return CommandInput{Model: ti}
}

// Init returns the focus command.
func (c CommandInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles history keys and forwards everything else.
func (c CommandInput) Update(msg tea.Msg) (CommandInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if c.pos > 0 {
				c.pos--
				c.Model.SetValue(c.history[c.pos])
				c.Model.CursorEnd()
			}
			return c, nil
		case "down":
			if c.pos < len(c.history) {
				c.pos++
				if c.pos == len(c.history) {
					c.Model.SetValue("")
				} else {
					c.Model.SetValue(c.history[c.pos])
				}
				c.Model.CursorEnd()
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// Submit returns the trimmed value, records it in history and clears the
// line. Blank input returns "" and is not recorded.
func (c *CommandInput) Submit() string {
	v := strings.TrimSpace(c.Model.Value())
	c.Model.Reset()
	if v == "" {
		return ""
	}
	if n := len(c.history); n == 0 || c.history[n-1] != v {
		c.history = append(c.history, v)
	}
	c.pos = len(c.history)
	return v
}

// History returns submitted lines, oldest first.
func (c CommandInput) History() []string { return c.history }

// Value returns the current line.
func (c CommandInput) Value() string { return c.Model.Value() }

// View renders the input.
func (c CommandInput) View() string { return c.Model.View() }
