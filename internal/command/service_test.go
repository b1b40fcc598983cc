package command

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/robosim/internal/llm"
	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/store"
)

type memJournal struct {
	mu      sync.Mutex
	entries []store.CommandEventData
	err     error
}

func (j *memJournal) AppendCommand(_ context.Context, data store.CommandEventData) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, data)
	return j.err
}

func TestTranslate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"commands":[
		{"action":"move","direction":"backward","value":1.5,"unit":"meters","speed":0.8,"sensor":"none"},
		{"action":"rotate","direction":"none","value":0,"unit":"none","speed":0,"sensor":"none"},
		{"action":"move","direction":"none","value":3,"unit":"seconds","speed":2,"sensor":"none"},
		{"action":"sensor","direction":"none","value":0,"unit":"none","speed":0,"sensor":"none"}
	]}`)})
	tr := NewTranslator(mock, DefaultTranslatorConfig())

	cmds, err := tr.Translate(context.Background(), "scoot back a bit and look around", robot.TypeMobile)
	require.NoError(t, err)
	assert.Equal(t, []Command{
		{Action: ActionMove, Direction: robot.Backward, Speed: 0.8, Distance: 1.5},
		{Action: ActionRotate, Direction: robot.Right, Angle: DefaultAngle, Speed: DefaultSpeed},
		{Action: ActionMove, Direction: robot.Forward, Speed: DefaultSpeed, Duration: 3 * time.Second},
		{Action: ActionSensor, Sensor: DefaultSensor},
	}, cmds)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, CommandSchema, req.Schema)
	assert.Contains(t, req.System, "Mobile Robot")
	assert.Contains(t, req.System, "cannot fly")
	assert.Equal(t, "scoot back a bit and look around", req.Messages[0].Content)
}

func TestTranslatePromptForDrone(t *testing.T) {
	p, err := buildTranslatePrompt(robot.TypeDrone)
	require.NoError(t, err)
	assert.Contains(t, p, "This robot flies")
	assert.NotContains(t, p, "cannot fly")
}

func TestTranslateFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty plan", `{"commands":[]}`},
		{"unknown action", `{"commands":[{"action":"dance","direction":"none","value":0,"unit":"none","speed":0,"sensor":"none"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.content)})
			_, err := NewTranslator(mock, DefaultTranslatorConfig()).Translate(context.Background(), "whatever", robot.TypeMobile)
			assert.ErrorIs(t, err, ErrUnknownCommand)
		})
	}

	t.Run("provider error", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: time.Second}})
		_, err := NewTranslator(mock, DefaultTranslatorConfig()).Translate(context.Background(), "whatever", robot.TypeMobile)
		var rl *llm.ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})

	t.Run("no provider", func(t *testing.T) {
		_, err := NewTranslator(nil, DefaultTranslatorConfig()).Translate(context.Background(), "x", robot.TypeMobile)
		assert.ErrorIs(t, err, ErrUnknownCommand)
	})
}

func TestServiceHandleParsed(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	s.SetActiveChallenge("intro-2")
	j := &memJournal{}
	mock := llm.NewMockProvider()
	svc := NewService(s, NewTranslator(mock, DefaultTranslatorConfig()), j, "sess-1")

	lines, err := svc.Handle(context.Background(), "  read the distance sensor ")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, s.Tracking().IsObjectiveCompleted("obj5"))
	assert.Zero(t, mock.CallCount(), "parser handled it")

	require.Len(t, j.entries, 1)
	e := j.entries[0]
	assert.Equal(t, "sess-1", e.SessionID)
	assert.Equal(t, "read the distance sensor", e.Input)
	assert.Equal(t, SourceParser, e.Source)
	assert.Equal(t, "sensor ultrasonic", e.Action)
	assert.Equal(t, lines[0], e.Result)
	assert.True(t, e.Success)
}

func TestServiceHandleFallsBackToLLM(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	j := &memJournal{}
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"commands":[{"action":"grab","direction":"none","value":0,"unit":"none","speed":0,"sensor":"none"}]}`)})
	svc := NewService(s, NewTranslator(mock, DefaultTranslatorConfig()), j, "sess-2")

	lines, err := svc.Handle(context.Background(), "snatch that crate")
	require.NoError(t, err)
	assert.Equal(t, []string{"✓ Object grabbed"}, lines)
	assert.True(t, s.Robot().Grabbing)

	require.Len(t, j.entries, 1)
	assert.Equal(t, SourceLLM, j.entries[0].Source)
	assert.Equal(t, "grab", j.entries[0].Action)
}

func TestServiceHandleUnknown(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	j := &memJournal{err: errors.New("disk full")}
	svc := NewService(s, nil, j, "sess-3")

	_, err := svc.Handle(context.Background(), "sing a song")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "move forward 2 meters")

	require.Len(t, j.entries, 1, "journal failures are not fatal")
	assert.False(t, j.entries[0].Success)

	_, err = svc.Handle(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Len(t, j.entries, 1, "blank input is not journaled")
}

func TestServiceNilJournal(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	svc := NewService(s, nil, nil, "")
	lines, err := svc.Handle(context.Background(), "stop")
	require.NoError(t, err)
	assert.Equal(t, []string{"✓ Robot stopped"}, lines)
	assert.False(t, svc.Busy())
}
