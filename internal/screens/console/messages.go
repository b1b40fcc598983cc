package console

import (
	"time"

	"github.com/abhisek/robosim/internal/script"
)

// commandDoneMsg carries the status lines of a finished natural-language
// command.
type commandDoneMsg struct {
	Lines []string
	Err   error
}

// scriptDoneMsg is sent when a /run script finishes.
type scriptDoneMsg struct {
	Name   string
	Result script.Result
}

// telemetryTickMsg refreshes the telemetry panel while the robot moves.
type telemetryTickMsg time.Time
