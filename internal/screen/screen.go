// Package screen defines the contract between the app shell and its screens,
// plus the app-wide messages every screen may receive.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that own a text field. While
// Capturing is true the shell forwards Esc and printable keys to the
// screen instead of treating them as navigation.
type InputCapturer interface {
	Capturing() bool
}

// CompletionMsg wraps a simulator completion event. The shell delivers it to
// every screen on the stack, not just the active one.
type CompletionMsg struct {
	Event events.Event
}

// ProgressChangedMsg tells screens that completion sets changed without an
// event, for example after a hint unlock or a reset. It is broadcast too.
type ProgressChangedMsg struct{}

// Broadcast reports whether msg goes to every screen on the stack.
func Broadcast(msg tea.Msg) bool {
	switch msg.(type) {
	case CompletionMsg, ProgressChangedMsg:
		return true
	}
	return false
}
