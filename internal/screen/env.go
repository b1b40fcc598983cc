package screen

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/command"
	"github.com/abhisek/robosim/internal/progress"
	"github.com/abhisek/robosim/internal/script"
	"github.com/abhisek/robosim/internal/sim"
)

// Env carries the services screens share. Recorder may be nil when
// persistence is disabled.
type Env struct {
	Sim      *sim.Simulator
	Commands *command.Service
	Scripts  *script.Runner
	Recorder *progress.Recorder

	// ScriptTimeout bounds a console script run. Zero means no limit.
	ScriptTimeout time.Duration
}

// SaveProgress persists the current sets and broadcasts ProgressChangedMsg.
// Save failures are reported on stderr and do not block the UI.
func (e *Env) SaveProgress() tea.Cmd {
	return func() tea.Msg {
		if e.Recorder != nil {
			if err := e.Recorder.Save(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}
		return ProgressChangedMsg{}
	}
}
