package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileStoreUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStoreUsesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "robosim.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, name := range append(eventTables, tableSnapshots, "global_sequence") {
		var got string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name,
		).Scan(&got)
		if err != nil {
			t.Errorf("table %s: %v", name, err)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		Data: SnapshotData{
			Version:             1,
			RobotType:           "mobile",
			ActiveChallenge:     "intro-1",
			CompletedObjectives: []string{"obj1", "obj2"},
			CompletedChallenges: []string{},
			ViewedTheory:        []string{"movement_basics"},
			UnlockedHints:       []string{"intro-1/hint1"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
	if snap.Data.ActiveChallenge != "intro-1" {
		t.Errorf("active challenge = %q", snap.Data.ActiveChallenge)
	}
	if len(snap.Data.CompletedObjectives) != 2 || snap.Data.CompletedObjectives[1] != "obj2" {
		t.Errorf("completed objectives = %v", snap.Data.CompletedObjectives)
	}
	if len(snap.Data.UnlockedHints) != 1 || snap.Data.UnlockedHints[0] != "intro-1/hint1" {
		t.Errorf("unlocked hints = %v", snap.Data.UnlockedHints)
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := range 3 {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 3 {
		t.Errorf("sequence = %d, want 3", snap.Sequence)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := range 5 {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count after prune = %d, want 2", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 5 {
		t.Errorf("latest sequence = %d, want 5", snap.Sequence)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, &Snapshot{Sequence: 1, Timestamp: time.Now().UTC(), Data: SnapshotData{Version: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("next = %d, want %d", got, want)
		}
	}

	cur, err := s.seq.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur != 5 {
		t.Errorf("current = %d, want 5", cur)
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendCompletion(ctx, CompletionEventData{
		SessionID: "s1", Kind: CompletionObjective, ChallengeID: "intro-1", ObjectiveID: "obj2",
	}); err != nil {
		t.Fatalf("append completion: %v", err)
	}
	if err := repo.AppendScriptRun(ctx, ScriptRunEventData{
		SessionID: "s1", RunID: "r1", RobotType: "mobile", Source: "move('forward')", Success: true,
	}); err != nil {
		t.Fatalf("append script run: %v", err)
	}
	if err := repo.AppendCompletion(ctx, CompletionEventData{
		SessionID: "s1", Kind: CompletionChallenge, ChallengeID: "intro-1",
	}); err != nil {
		t.Fatalf("append completion: %v", err)
	}

	completions, err := repo.QueryCompletions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query completions: %v", err)
	}
	runs, err := repo.QueryScriptRuns(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query runs: %v", err)
	}

	if len(completions) != 2 || len(runs) != 1 {
		t.Fatalf("got %d completions and %d runs", len(completions), len(runs))
	}
	// Newest first.
	if completions[0].Sequence != 3 || completions[1].Sequence != 1 {
		t.Errorf("completion sequences = %d, %d", completions[0].Sequence, completions[1].Sequence)
	}
	if runs[0].Sequence != 2 {
		t.Errorf("run sequence = %d, want 2", runs[0].Sequence)
	}
	if completions[0].Kind != CompletionChallenge || completions[1].ObjectiveID != "obj2" {
		t.Errorf("unexpected completions: %+v", completions)
	}
}

func TestQueryOpts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, in := range []string{"forward", "left", "grab", "stop"} {
		if err := repo.AppendCommand(ctx, CommandEventData{
			SessionID: "s1", Input: in, Source: "parser", Action: in, Success: true,
		}); err != nil {
			t.Fatalf("append command: %v", err)
		}
	}

	got, err := repo.QueryCommands(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].Input != "stop" || got[1].Input != "grab" {
		t.Errorf("limit query = %+v", got)
	}

	got, err = repo.QueryCommands(ctx, QueryOpts{After: 1, Before: 4})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].Input != "grab" || got[1].Input != "left" {
		t.Errorf("range query = %+v", got)
	}

	got, err = repo.QueryCommands(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("future query returned %d events", len(got))
	}
}

func TestLLMEventsAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m1", Purpose: "command-translate", InputTokens: 100, OutputTokens: 10, LatencyMs: 200, Success: true, RequestBody: "{}", ResponseBody: `{"action":"move"}`},
		{Provider: "anthropic", Model: "m1", Purpose: "command-translate", InputTokens: 50, OutputTokens: 20, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "m2", Purpose: "hint", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, c := range calls {
		if err := repo.AppendLLMRequest(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].ErrorMessage != "boom" {
		t.Errorf("newest event error = %q", events[0].ErrorMessage)
	}

	first := events[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ResponseBody != `{"action":"move"}` {
		t.Errorf("get = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	tr := byPurpose[0]
	if tr.Purpose != "command-translate" || tr.Calls != 2 || tr.InputTokens != 150 || tr.OutputTokens != 30 || tr.AvgLatencyMs != 300 {
		t.Errorf("command-translate usage = %+v", tr)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "m2" || byModel[1].Calls != 1 {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestResetClearsEventsButKeepsSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendCompletion(ctx, CompletionEventData{SessionID: "s", Kind: CompletionObjective, ChallengeID: "intro-1", ObjectiveID: "obj1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.SnapshotRepo().Save(ctx, &Snapshot{Sequence: 1, Timestamp: time.Now().UTC(), Data: SnapshotData{Version: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s has %d rows after reset", table, n)
		}
	}
	snap, err := s.SnapshotRepo().Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap != nil {
		t.Error("expected no snapshot after reset")
	}

	next, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != 2 {
		t.Errorf("next sequence after reset = %d, want 2", next)
	}
}
