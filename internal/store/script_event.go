package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendScriptRun(ctx context.Context, data ScriptRunEventData) error {
	err := r.appendEvent(ctx, tableScriptRunEvents,
		[]string{"session_id", "run_id", "challenge_id", "robot_type", "source", "output", "success", "error_message", "duration_ms"},
		[]any{data.SessionID, data.RunID, data.ChallengeID, data.RobotType, data.Source, data.Output, data.Success, data.ErrorMessage, data.DurationMs},
	)
	if err != nil {
		return fmt.Errorf("save script run event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryScriptRuns(ctx context.Context, opts QueryOpts) ([]ScriptRunEvent, error) {
	sel := selectEvents(tableScriptRunEvents, opts,
		"session_id", "run_id", "challenge_id", "robot_type", "source", "output", "success", "error_message", "duration_ms")

	var out []ScriptRunEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var e ScriptRunEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.RunID, &e.ChallengeID, &e.RobotType, &e.Source, &e.Output,
			&e.Success, &e.ErrorMessage, &e.DurationMs); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query script run events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AppendCommand(ctx context.Context, data CommandEventData) error {
	err := r.appendEvent(ctx, tableCommandEvents,
		[]string{"session_id", "input", "source", "action", "result", "success"},
		[]any{data.SessionID, data.Input, data.Source, data.Action, data.Result, data.Success},
	)
	if err != nil {
		return fmt.Errorf("save command event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryCommands(ctx context.Context, opts QueryOpts) ([]CommandEvent, error) {
	sel := selectEvents(tableCommandEvents, opts, "session_id", "input", "source", "action", "result", "success")

	var out []CommandEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var e CommandEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.Input, &e.Source, &e.Action, &e.Result, &e.Success); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query command events: %w", err)
	}
	return out, nil
}
