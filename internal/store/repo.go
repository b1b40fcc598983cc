package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures the learner's completion state at a point in time.
type SnapshotData struct {
	Version             int      `json:"version"`
	RobotType           string   `json:"robot_type,omitempty"`
	ActiveChallenge     string   `json:"active_challenge,omitempty"`
	CompletedObjectives []string `json:"completed_objectives"`
	CompletedChallenges []string `json:"completed_challenges"`
	ViewedTheory        []string `json:"viewed_theory"`
	UnlockedHints       []string `json:"unlocked_hints"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// Completion kinds.
const (
	CompletionObjective = "objective"
	CompletionChallenge = "challenge"
)

// CompletionEventData records one objective or challenge completion.
type CompletionEventData struct {
	SessionID   string
	Kind        string
	ChallengeID string
	ObjectiveID string
}

// CompletionEvent is a stored completion.
type CompletionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	CompletionEventData
}

// ScriptRunEventData records one Lua script execution.
type ScriptRunEventData struct {
	SessionID    string
	RunID        string
	ChallengeID  string
	RobotType    string
	Source       string
	Output       string
	Success      bool
	ErrorMessage string
	DurationMs   int64
}

// ScriptRunEvent is a stored script run.
type ScriptRunEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ScriptRunEventData
}

// CommandEventData records one natural-language command.
type CommandEventData struct {
	SessionID string
	Input     string
	Source    string // "parser" or "llm"
	Action    string
	Result    string
	Success   bool
}

// CommandEvent is a stored command.
type CommandEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	CommandEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates LLM calls by purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM calls by model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendCompletion(ctx context.Context, data CompletionEventData) error
	QueryCompletions(ctx context.Context, opts QueryOpts) ([]CompletionEvent, error)

	AppendScriptRun(ctx context.Context, data ScriptRunEventData) error
	QueryScriptRuns(ctx context.Context, opts QueryOpts) ([]ScriptRunEvent, error)

	AppendCommand(ctx context.Context, data CommandEventData) error
	QueryCommands(ctx context.Context, opts QueryOpts) ([]CommandEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns the event with the given ID, or nil.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// Counts returns the number of stored events per table.
	Counts(ctx context.Context) (map[string]int, error)
}
