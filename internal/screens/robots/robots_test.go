package robots

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/sim"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestRobotScreen_Select(t *testing.T) {
	s := sim.New(sim.Options{
		Logger:       log.New(io.Discard, "", 0),
		TickInterval: time.Millisecond,
	})
	t.Cleanup(s.Close)
	scr := New(&screen.Env{Sim: s})

	if scr.Title() != "Robots" {
		t.Errorf("Title = %q", scr.Title())
	}
	view := scr.View(100, 30)
	if !strings.Contains(view, "(current)") || !strings.Contains(view, "Drone") {
		t.Error("view should list robots and mark the current one")
	}

	// Mobile, Arm, Drone.
	scr.Update(specialKey(tea.KeyDown))
	scr.Update(specialKey(tea.KeyDown))
	_, cmd := scr.Update(specialKey(tea.KeyEnter))

	if got := s.Robot().Type; got != robot.TypeDrone {
		t.Errorf("robot = %s, want drone", got)
	}
	if cmd == nil {
		t.Error("selection should save and pop")
	}
}
