package command

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/script"
)

// Robot is what the executor drives. *sim.Simulator implements it.
type Robot interface {
	script.Robot
	TickInterval() time.Duration
}

// Executor runs parsed commands one at a time against a Robot.
type Executor struct {
	robot Robot
	busy  atomic.Bool
}

// NewExecutor returns an Executor for r.
func NewExecutor(r Robot) *Executor {
	return &Executor{robot: r}
}

// Busy reports whether a plan is executing.
func (e *Executor) Busy() bool { return e.busy.Load() }

// Execute runs cmds in order and returns one status line per command. Only
// one plan runs at a time; a concurrent call gets ErrBusy. If ctx ends
// mid-plan the robot is stopped and the lines so far are returned with the
// context error.
func (e *Executor) Execute(ctx context.Context, cmds []Command) ([]string, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		line, err := e.run(ctx, c)
		if err != nil {
			e.robot.Stop()
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (e *Executor) run(ctx context.Context, c Command) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch c.Action {
	case ActionMove:
		return e.move(ctx, c)

	case ActionRotate:
		if err := e.robot.SimulateRotation(ctx, c.Direction, c.Angle, c.Speed); err != nil {
			return "", fmt.Errorf("rotate: %w", err)
		}
		return fmt.Sprintf("✓ Rotation completed: %s %g°", c.Direction, c.Angle), nil

	case ActionStop:
		e.robot.Stop()
		return "✓ Robot stopped", nil

	case ActionSensor:
		kind := c.Sensor
		if kind == "" {
			kind = DefaultSensor
		}
		v := e.robot.ReadSensor(kind)
		unit := "units"
		if kind == DefaultSensor {
			unit = "meters"
		}
		return fmt.Sprintf("✓ Sensor reading: %.2f %s", v, unit), nil

	case ActionGrab:
		e.robot.Grab()
		return "✓ Object grabbed", nil

	case ActionRelease:
		e.robot.Release()
		return "✓ Object released", nil

	case ActionHover:
		if e.robot.Robot().Type != robot.TypeDrone {
			return "✗ Only drones can hover", nil
		}
		e.robot.Hover()
		return "✓ Hovering", nil

	case ActionLand:
		if e.robot.Robot().Type != robot.TypeDrone {
			return "✗ Only drones can land", nil
		}
		e.robot.Land()
		return "✓ Landed", nil
	}
	return "", fmt.Errorf("%w: action %q", ErrUnknownCommand, c.Action)
}

func (e *Executor) move(ctx context.Context, c Command) (string, error) {
	state := e.robot.Robot()
	kin := robot.KinematicsFor(state.Type)
	switch {
	case c.Direction.Vertical():
		if state.Type != robot.TypeDrone {
			return fmt.Sprintf("✗ The %s cannot move %s; only drones change altitude", state.Type.DisplayName(), c.Direction), nil
		}
	case !kin.Mobile:
		return fmt.Sprintf("✗ The %s cannot drive; try moving a joint", state.Type.DisplayName()), nil
	default:
		if _, ok := kin.Delta(c.Direction, state.Rotation.Y, 1); !ok {
			return fmt.Sprintf("✗ The %s cannot move %s; turn first, then move forward", state.Type.DisplayName(), c.Direction), nil
		}
		if state.Battery <= 0 {
			return "✗ Battery empty; the robot cannot move", nil
		}
	}

	speed := c.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	dur := c.Duration
	if c.Distance > 0 {
		dur = kin.MoveDuration(c.Distance, speed, e.robot.TickInterval())
	}

	if err := e.robot.SimulateMovement(ctx, c.Direction, speed, dur); err != nil {
		return "", fmt.Errorf("move: %w", err)
	}
	return fmt.Sprintf("✓ Movement completed: %s for %dms", c.Direction, dur.Milliseconds()), nil
}
