package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
)

var activityColumns = []string{"to_id", "from_id", "category", "message", "viewed", "created_at"}

// CreateActivity bulk-inserts entries with COPY.
//
// Precondition: every entry must pass Validate.
func (t *txStore) CreateActivity(ctx context.Context, entries []activity.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	n, err := t.tx.CopyFrom(ctx, pgx.Identifier{"activity_log"}, activityColumns,
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{e.ToID, nullID(e.FromID), string(e.Category), e.Message, e.Viewed, e.CreatedAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copying activity entries: %w", err)
	}
	if int(n) != len(entries) {
		return fmt.Errorf("copying activity entries: wrote %d of %d", n, len(entries))
	}
	return nil
}

// Inbox returns the newest entries for toID, newest first.
func (t *txStore) Inbox(ctx context.Context, toID int64, limit int) ([]activity.Entry, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, to_id, from_id, category, message, viewed, created_at
		FROM activity_log WHERE to_id = $1 ORDER BY id DESC LIMIT $2`,
		toID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inbox: %w", err)
	}
	defer rows.Close()

	entries := make([]activity.Entry, 0)
	for rows.Next() {
		var (
			e        activity.Entry
			fromID   *int64
			category string
		)
		if err := rows.Scan(&e.ID, &e.ToID, &fromID, &category, &e.Message, &e.Viewed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		if fromID != nil {
			e.FromID = *fromID
		}
		e.Category = activity.Category(category)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PurgeViewed deletes viewed entries older than cutoff and viewed arrival/departure notices.
func (t *txStore) PurgeViewed(ctx context.Context, toID int64, cutoff time.Time) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM activity_log
		WHERE to_id = $1 AND viewed
		  AND (created_at < $2 OR category IN ($3, $4))`,
		toID, cutoff, string(activity.Arrival), string(activity.Departure),
	)
	if err != nil {
		return fmt.Errorf("purging inbox: %w", err)
	}
	return nil
}

// MarkViewed flags every unread entry for toID as viewed.
func (t *txStore) MarkViewed(ctx context.Context, toID int64) error {
	if _, err := t.tx.Exec(ctx, `UPDATE activity_log SET viewed = TRUE WHERE to_id = $1 AND NOT viewed`, toID); err != nil {
		return fmt.Errorf("marking inbox viewed: %w", err)
	}
	return nil
}
