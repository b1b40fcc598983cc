package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendCompletion(ctx context.Context, data CompletionEventData) error {
	err := r.appendEvent(ctx, tableCompletionEvents,
		[]string{"session_id", "kind", "challenge_id", "objective_id"},
		[]any{data.SessionID, data.Kind, data.ChallengeID, data.ObjectiveID},
	)
	if err != nil {
		return fmt.Errorf("save completion event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryCompletions(ctx context.Context, opts QueryOpts) ([]CompletionEvent, error) {
	sel := selectEvents(tableCompletionEvents, opts, "session_id", "kind", "challenge_id", "objective_id")

	var out []CompletionEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var e CompletionEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.Kind, &e.ChallengeID, &e.ObjectiveID); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query completion events: %w", err)
	}
	return out, nil
}
