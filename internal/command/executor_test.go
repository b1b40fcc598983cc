package command

import (
	"context"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/sim"
)

func newSim(t *testing.T, rt robot.Type) *sim.Simulator {
	t.Helper()
	s := sim.New(sim.Options{
		Logger:       log.New(io.Discard, "", 0),
		TickInterval: time.Millisecond,
		Robot:        rt,
		Rand:         rand.New(rand.NewPCG(7, 11)),
	})
	t.Cleanup(s.Close)
	return s
}

func TestExecuteCompletesObjectives(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	s.SetActiveChallenge("intro-1")

	cmds, ok := ParseAll("move forward 6 meters at 100% speed then turn right")
	require.True(t, ok)

	lines, err := NewExecutor(s).Execute(context.Background(), cmds)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "✓ Movement completed: forward")
	assert.Equal(t, "✓ Rotation completed: right 90°", lines[1])

	tr := s.Tracking()
	assert.True(t, tr.IsObjectiveCompleted("obj2"))
	assert.True(t, tr.IsObjectiveCompleted("obj3"))
	assert.GreaterOrEqual(t, s.Robot().Position.Z, 5.9)
}

func TestExecuteSimpleActions(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	e := NewExecutor(s)

	lines, err := e.Execute(context.Background(), []Command{
		{Action: ActionSensor, Sensor: "ultrasonic"},
		{Action: ActionSensor, Sensor: "camera"},
		{Action: ActionGrab},
		{Action: ActionRelease},
		{Action: ActionStop},
		{Action: ActionHover},
	})
	require.NoError(t, err)
	require.Len(t, lines, 6)
	assert.Regexp(t, `^✓ Sensor reading: \d+\.\d\d meters$`, lines[0])
	assert.Regexp(t, `^✓ Sensor reading: \d+\.\d\d units$`, lines[1])
	assert.Equal(t, "✓ Object grabbed", lines[2])
	assert.Equal(t, "✓ Object released", lines[3])
	assert.Equal(t, "✓ Robot stopped", lines[4])
	assert.Equal(t, "✗ Only drones can hover", lines[5])

	tr := s.Tracking()
	assert.Equal(t, 2, tr.SensorReads)
	assert.False(t, s.Robot().Grabbing)
}

func TestExecuteDrone(t *testing.T) {
	s := newSim(t, robot.TypeDrone)
	lines, err := NewExecutor(s).Execute(context.Background(), []Command{{Action: ActionHover}, {Action: ActionLand}})
	require.NoError(t, err)
	assert.Equal(t, []string{"✓ Hovering", "✓ Landed"}, lines)
	assert.Zero(t, s.Robot().Position.Y)
}

func TestExecuteArmCannotDrive(t *testing.T) {
	s := newSim(t, robot.TypeArm)
	lines, err := NewExecutor(s).Execute(context.Background(), []Command{
		{Action: ActionMove, Direction: robot.Forward, Distance: 2, Speed: 0.5},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "cannot drive")
	assert.Equal(t, robot.Vec3{}, s.Robot().Position)
}

func TestExecuteRejectsUnsupportedDirections(t *testing.T) {
	tests := []struct {
		name string
		rt   robot.Type
		text string
		want string
	}{
		{"mobile strafe", robot.TypeMobile, "go left 2 meters", "cannot move left"},
		{"tank strafe", robot.TypeTank, "move right", "cannot move right"},
		{"mobile climb", robot.TypeMobile, "go up", "only drones change altitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSim(t, tt.rt)
			cmds, ok := ParseAll(tt.text)
			require.True(t, ok)

			lines, err := NewExecutor(s).Execute(context.Background(), cmds)
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.True(t, strings.HasPrefix(lines[0], "✗ "), lines[0])
			assert.Contains(t, lines[0], tt.want)
			assert.Equal(t, robot.Vec3{}, s.Robot().Position)
			assert.Zero(t, s.Tracking().TotalDistance)
		})
	}

	s := newSim(t, robot.TypeExplorer)
	lines, err := NewExecutor(s).Execute(context.Background(), []Command{
		{Action: ActionMove, Direction: robot.Left, Speed: 1, Duration: 50 * time.Millisecond},
	})
	require.NoError(t, err)
	assert.Contains(t, lines[0], "✓ Movement completed: left")
}

func TestExecuteBusy(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	e := NewExecutor(s)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := e.Execute(context.Background(), []Command{
			{Action: ActionMove, Direction: robot.Forward, Speed: 0.1, Duration: 300 * time.Millisecond},
		})
		done <- err
	}()
	<-started
	require.Eventually(t, e.Busy, time.Second, time.Millisecond)

	_, err := e.Execute(context.Background(), []Command{{Action: ActionStop}})
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, <-done)
	assert.False(t, e.Busy())
}

func TestExecuteCancelStopsRobot(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	lines, err := NewExecutor(s).Execute(ctx, []Command{
		{Action: ActionGrab},
		{Action: ActionMove, Direction: robot.Forward, Speed: 0.5, Duration: 10 * time.Second},
		{Action: ActionRelease},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"✓ Object grabbed"}, lines)
	assert.False(t, s.Moving())
	assert.True(t, s.Robot().Grabbing, "release never ran")
}

func TestExecuteUnknownAction(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	_, err := NewExecutor(s).Execute(context.Background(), []Command{{Action: "dance"}})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
