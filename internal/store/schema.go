package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableCompletionEvents = "completion_events"
	tableScriptRunEvents  = "script_run_events"
	tableCommandEvents    = "command_events"
	tableLLMRequestEvents = "llm_request_events"
	tableSnapshots        = "snapshots"
)

// eventColumns returns the id/sequence/timestamp columns every event table
// starts with.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
}

func eventTable(name string, cols ...*schema.Column) *schema.Table {
	all := append(eventColumns(), cols...)
	return &schema.Table{
		Name:       name,
		Columns:    all,
		PrimaryKey: []*schema.Column{all[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{all[2]}},
		},
	}
}

var (
	completionEventsTable = eventTable(tableCompletionEvents,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "challenge_id", Type: field.TypeString},
		&schema.Column{Name: "objective_id", Type: field.TypeString, Default: ""},
	)

	scriptRunEventsTable = eventTable(tableScriptRunEvents,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "run_id", Type: field.TypeString},
		&schema.Column{Name: "challenge_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "robot_type", Type: field.TypeString},
		&schema.Column{Name: "source", Type: field.TypeString, Size: 1 << 20},
		&schema.Column{Name: "output", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "duration_ms", Type: field.TypeInt64, Default: 0},
	)

	commandEventsTable = eventTable(tableCommandEvents,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "input", Type: field.TypeString},
		&schema.Column{Name: "source", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "result", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "success", Type: field.TypeBool},
	)

	llmRequestEventsTable = eventTable(tableLLMRequestEvents,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	)

	snapshotColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	snapshotsTable = &schema.Table{
		Name:       tableSnapshots,
		Columns:    snapshotColumns,
		PrimaryKey: []*schema.Column{snapshotColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshots_timestamp", Columns: []*schema.Column{snapshotColumns[2]}},
			{Name: "snapshots_sequence", Columns: []*schema.Column{snapshotColumns[1]}},
		},
	}

	tables = []*schema.Table{
		completionEventsTable,
		scriptRunEventsTable,
		commandEventsTable,
		llmRequestEventsTable,
		snapshotsTable,
	}

	// eventTables lists every table stamped by the global sequence.
	eventTables = []string{
		tableCompletionEvents,
		tableScriptRunEvents,
		tableCommandEvents,
		tableLLMRequestEvents,
	}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
