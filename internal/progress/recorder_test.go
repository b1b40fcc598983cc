package progress

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/script"
	"github.com/abhisek/robosim/internal/sim"
	"github.com/abhisek/robosim/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newSim(t *testing.T, rt robot.Type) *sim.Simulator {
	t.Helper()
	s := sim.New(sim.Options{
		Logger:       log.New(io.Discard, "", 0),
		TickInterval: time.Millisecond,
		Robot:        rt,
	})
	t.Cleanup(s.Close)
	return s
}

func TestRecorderJournalsAndSnapshots(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	s := newSim(t, robot.TypeDrone)

	rec := NewRecorder(s, st.EventRepo(), st.SnapshotRepo(), "sess-a")
	rec.Start()
	rec.Start()
	defer rec.Stop()
	assert.Equal(t, 1, s.Bus().Len())

	s.SetActiveChallenge("intro-2")
	s.MarkTheoryViewed("sensor_basics")
	s.ReadSensor(sim.SensorUltrasonic)

	comps, err := st.EventRepo().QueryCompletions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, comps, 3)
	// Newest first.
	assert.Equal(t, store.CompletionChallenge, comps[0].Kind)
	assert.Equal(t, "intro-2", comps[0].ChallengeID)
	assert.Equal(t, "obj5", comps[1].ObjectiveID)
	assert.Equal(t, "obj4", comps[2].ObjectiveID)
	for _, c := range comps {
		assert.Equal(t, "sess-a", c.SessionID)
	}

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, SnapshotVersion, snap.Data.Version)
	assert.Equal(t, "drone", snap.Data.RobotType)
	assert.Equal(t, "intro-2", snap.Data.ActiveChallenge)
	assert.Equal(t, []string{"obj4", "obj5"}, snap.Data.CompletedObjectives)
	assert.Equal(t, []string{"intro-2"}, snap.Data.CompletedChallenges)
	assert.Equal(t, []string{"sensor_basics"}, snap.Data.ViewedTheory)

	rec.Stop()
	assert.Zero(t, s.Bus().Len())
}

func TestRecorderSaveAfterHint(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	s := newSim(t, robot.TypeMobile)
	rec := NewRecorder(s, nil, st.SnapshotRepo(), "sess-b")

	_, ok := s.UnlockHint("intro-1", "hint2")
	require.True(t, ok)
	require.NoError(t, rec.Save(ctx))

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, []string{"intro-1/hint2"}, snap.Data.UnlockedHints)
}

func TestRecorderPrunes(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	s := newSim(t, robot.TypeMobile)
	rec := NewRecorder(s, nil, st.SnapshotRepo(), "sess-c")
	rec.keep = 2

	for range 5 {
		require.NoError(t, rec.Save(ctx))
	}

	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestRecordScriptRun(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	s := newSim(t, robot.TypeMobile)
	s.SetActiveChallenge("intro-1")
	rec := NewRecorder(s, st.EventRepo(), nil, "sess-s")

	res := script.NewRunner(s).Run(ctx, `print(robot.get_sensor("ultrasonic"))`)
	require.NoError(t, res.Err)
	require.NoError(t, rec.RecordScriptRun(ctx, "main.lua", res))

	failed := script.NewRunner(s).Run(ctx, `robot.move(`)
	require.Error(t, failed.Err)
	require.NoError(t, rec.RecordScriptRun(ctx, "broken.lua", failed))

	runs, err := st.EventRepo().QueryScriptRuns(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "broken.lua", runs[0].Source)
	assert.False(t, runs[0].Success)
	assert.Contains(t, runs[0].ErrorMessage, "syntax error")
	assert.Equal(t, "main.lua", runs[1].Source)
	assert.True(t, runs[1].Success)
	assert.Equal(t, "intro-1", runs[1].ChallengeID)
	assert.Equal(t, "mobile", runs[1].RobotType)
	assert.Equal(t, res.RunID, runs[1].RunID)

	assert.NoError(t, NewRecorder(s, nil, nil, "x").RecordScriptRun(ctx, "a.lua", res))
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	first := newSim(t, robot.TypeDrone)
	rec := NewRecorder(first, st.EventRepo(), st.SnapshotRepo(), "sess-d")
	rec.Start()
	first.SetActiveChallenge("intro-2")
	first.MarkTheoryViewed("sensor_basics")
	first.ReadSensor(sim.SensorCamera)
	_, _ = first.UnlockHint("intro-2", "hint3")
	require.NoError(t, rec.Save(ctx))
	rec.Stop()

	second := newSim(t, robot.TypeMobile)
	snap, err := Restore(ctx, second, st.SnapshotRepo())
	require.NoError(t, err)
	require.NotNil(t, snap)

	tr := second.Tracking()
	assert.Equal(t, robot.TypeDrone, second.Robot().Type)
	assert.Equal(t, "intro-2", second.ActiveChallenge())
	assert.True(t, tr.IsChallengeCompleted("intro-2"))
	assert.True(t, tr.IsObjectiveCompleted("obj4"))
	assert.True(t, second.IsHintUnlocked("intro-2", "hint3"))
	assert.Zero(t, tr.SensorReads, "attempt metrics are not persisted")
}

func TestRestoreEmpty(t *testing.T) {
	st := openTestStore(t)
	s := newSim(t, robot.TypeMobile)
	snap, err := Restore(context.Background(), s, st.SnapshotRepo())
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Empty(t, s.ActiveChallenge())
}

func TestSummarize(t *testing.T) {
	s := newSim(t, robot.TypeMobile)
	s.SetActiveChallenge("intro-2")
	s.MarkTheoryViewed("sensor_basics")
	s.ReadSensor(sim.SensorUltrasonic)
	_, _ = s.UnlockHint("intro-1", "hint2")

	cat := challenge.Default()
	sum := Summarize(cat, s.Tracking())

	require.Len(t, sum.Challenges, cat.Len())
	assert.Equal(t, 1, sum.CompletedChallenges)
	assert.Equal(t, 2, sum.CompletedObjectives)
	assert.Equal(t, cat.ObjectiveCount(), sum.TotalObjectives)
	assert.Equal(t, 1, sum.TheoryViewed)
	assert.Equal(t, 1, sum.HintsUnlocked)
	assert.Equal(t, 5, sum.HintPointsSpent)
	assert.InDelta(t, 200/float64(cat.ObjectiveCount()), sum.Percent(), 1e-9)

	for _, c := range sum.Challenges {
		if c.ID == "intro-2" {
			assert.Equal(t, challenge.StatusCompleted, c.Status)
			assert.Equal(t, 2, c.ObjectivesDone)
		}
	}
}
