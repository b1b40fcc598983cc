// Package progress persists learner completion state. A Recorder listens to
// simulator completion events, journals them and keeps a rolling set of
// snapshots; Restore rebuilds a simulator from the newest one.
package progress

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/script"
	"github.com/abhisek/robosim/internal/sim"
	"github.com/abhisek/robosim/internal/store"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// DefaultKeep is how many snapshots survive a prune.
const DefaultKeep = 20

// Recorder persists completions from one simulator session.
type Recorder struct {
	sim       *sim.Simulator
	events    store.EventRepo
	snaps     store.SnapshotRepo
	sessionID string
	keep      int
	now       func() time.Time

	mu    sync.Mutex
	unsub func()
}

// NewRecorder returns a Recorder. Either repo may be nil to skip that half.
func NewRecorder(s *sim.Simulator, ev store.EventRepo, snaps store.SnapshotRepo, sessionID string) *Recorder {
	return &Recorder{
		sim:       s,
		events:    ev,
		snaps:     snaps,
		sessionID: sessionID,
		keep:      DefaultKeep,
		now:       time.Now,
	}
}

// SessionID returns the session label written with every event.
func (r *Recorder) SessionID() string { return r.sessionID }

// Start subscribes to the simulator's bus. Calling Start twice is a no-op.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsub != nil {
		return
	}
	r.unsub = r.sim.Bus().Subscribe(r.handle)
}

// Stop unsubscribes.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
}

func (r *Recorder) handle(e events.Event) {
	ctx := context.Background()

	var data store.CompletionEventData
	switch ev := e.(type) {
	case events.ObjectiveCompleted:
		data = store.CompletionEventData{
			Kind:        store.CompletionObjective,
			ChallengeID: ev.ChallengeID,
			ObjectiveID: ev.ObjectiveID,
		}
	case events.ChallengeCompleted:
		data = store.CompletionEventData{
			Kind:        store.CompletionChallenge,
			ChallengeID: ev.ChallengeID,
		}
	default:
		return
	}
	data.SessionID = r.sessionID

	if r.events != nil {
		if err := r.events.AppendCompletion(ctx, data); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to log completion: %v\n", err)
		}
	}
	if err := r.Save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// Save writes a snapshot of the simulator's current sets and prunes old
// ones. Callers invoke it after changes that publish no event, such as
// opening theory or unlocking a hint.
func (r *Recorder) Save(ctx context.Context) error {
	if r.snaps == nil {
		return nil
	}
	snap := &store.Snapshot{
		Timestamp: r.now(),
		Data:      SnapshotDataOf(r.sim.Snapshot()),
	}
	if err := r.snaps.Save(ctx, snap); err != nil {
		return fmt.Errorf("save progress snapshot: %w", err)
	}
	if err := r.snaps.Prune(ctx, r.keep); err != nil {
		return fmt.Errorf("prune progress snapshots: %w", err)
	}
	return nil
}

// RecordScriptRun journals one Lua run against the active challenge.
func (r *Recorder) RecordScriptRun(ctx context.Context, source string, res script.Result) error {
	if r.events == nil {
		return nil
	}
	snap := r.sim.Snapshot()
	data := store.ScriptRunEventData{
		SessionID:   r.sessionID,
		RunID:       res.RunID,
		ChallengeID: snap.ActiveChallenge,
		RobotType:   string(snap.Robot.Type),
		Source:      source,
		Output:      res.Output,
		Success:     res.OK(),
		DurationMs:  res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		data.ErrorMessage = res.Err.Error()
	}
	if err := r.events.AppendScriptRun(ctx, data); err != nil {
		return fmt.Errorf("log script run: %w", err)
	}
	return nil
}

// SnapshotDataOf converts a simulator snapshot into its persisted form.
func SnapshotDataOf(s sim.Snapshot) store.SnapshotData {
	sets := s.Tracking.Sets()
	return store.SnapshotData{
		Version:             SnapshotVersion,
		RobotType:           string(s.Robot.Type),
		ActiveChallenge:     s.ActiveChallenge,
		CompletedObjectives: sets.CompletedObjectives,
		CompletedChallenges: sets.CompletedChallenges,
		ViewedTheory:        sets.ViewedTheory,
		UnlockedHints:       sets.UnlockedHints,
	}
}

// Restore loads the newest snapshot into s. It returns nil when nothing was
// stored yet. Unknown robot types and challenges in the snapshot are skipped.
func Restore(ctx context.Context, s *sim.Simulator, snaps store.SnapshotRepo) (*store.Snapshot, error) {
	snap, err := snaps.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if snap == nil {
		return nil, nil
	}

	d := snap.Data
	if t, ok := robot.ParseType(d.RobotType); ok {
		s.SelectRobot(t)
	}
	s.RestoreSets(sim.Sets{
		CompletedObjectives: d.CompletedObjectives,
		CompletedChallenges: d.CompletedChallenges,
		ViewedTheory:        d.ViewedTheory,
		UnlockedHints:       d.UnlockedHints,
	})
	if d.ActiveChallenge != "" && s.Catalog().Lookup(d.ActiveChallenge) != nil {
		s.SetActiveChallenge(d.ActiveChallenge)
	}
	return snap, nil
}
