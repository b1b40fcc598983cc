// Package command turns natural-language robot instructions into simulator
// actions. A keyword parser handles the common phrasings; an optional LLM
// translator covers the rest.
package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/robosim/internal/robot"
)

// Action is what a command asks the robot to do.
type Action string

const (
	ActionMove    Action = "move"
	ActionRotate  Action = "rotate"
	ActionStop    Action = "stop"
	ActionSensor  Action = "sensor"
	ActionGrab    Action = "grab"
	ActionRelease Action = "release"
	ActionHover   Action = "hover"
	ActionLand    Action = "land"
)

// Defaults used when the text leaves a value out.
const (
	DefaultSpeed    = 0.5
	DefaultDuration = 2 * time.Second
	DefaultAngle    = 90.0
	DefaultSensor   = "ultrasonic"
)

var (
	// ErrUnknownCommand is returned when no parser or translator understood the text.
	ErrUnknownCommand = errors.New("command not understood")

	// ErrBusy is returned when a command is issued while another is running.
	ErrBusy = errors.New("another command is already executing")
)

// Command is one robot instruction.
type Command struct {
	Action    Action
	Direction robot.Direction
	Speed     float64

	// Distance in meters, when the text named one. Takes precedence over
	// Duration once the robot's speed is known.
	Distance float64
	Duration time.Duration

	// Angle in degrees for rotations.
	Angle float64

	Sensor string
}

// String renders c compactly, e.g. "move forward 3m @0.50".
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(string(c.Action))
	switch c.Action {
	case ActionMove:
		fmt.Fprintf(&b, " %s", c.Direction)
		if c.Distance > 0 {
			fmt.Fprintf(&b, " %gm", c.Distance)
		} else {
			fmt.Fprintf(&b, " %s", c.Duration)
		}
		fmt.Fprintf(&b, " @%.2f", c.Speed)
	case ActionRotate:
		fmt.Fprintf(&b, " %s %g° @%.2f", c.Direction, c.Angle, c.Speed)
	case ActionSensor:
		fmt.Fprintf(&b, " %s", c.Sensor)
	}
	return b.String()
}

// Describe renders a plan as the action summary stored in the journal.
func Describe(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}
