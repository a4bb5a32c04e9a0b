package activity

import (
	"context"
	"fmt"
	"time"
)

// InboxStore is the persistence surface the read policy needs.
type InboxStore interface {
	// PurgeViewed deletes viewed entries for toID that are older than cutoff or transient.
	PurgeViewed(ctx context.Context, toID int64, cutoff time.Time) error
	// MarkViewed flags every entry for toID as viewed.
	MarkViewed(ctx context.Context, toID int64) error
	// Inbox returns the newest entries for toID, newest first.
	Inbox(ctx context.Context, toID int64, limit int) ([]Entry, error)
}

// Policy controls inbox retention.
type Policy struct {
	// Retention is how long viewed entries survive.
	Retention time.Duration
	// Limit is how many entries a read returns.
	Limit int
}

// DefaultPolicy keeps viewed entries for ten minutes and shows ten.
var DefaultPolicy = Policy{Retention: 10 * time.Minute, Limit: 10}

// Read applies the retention policy and returns the visible entries: viewed
// entries past retention and viewed arrival/departure notices are deleted, every
// remaining entry is marked viewed, and the newest Limit entries are returned.
// The returned entries carry their pre-read Viewed flag so callers can
// highlight what is new.
//
// Precondition: s must be scoped to a single transaction.
func Read(ctx context.Context, s InboxStore, toID int64, now time.Time, p Policy) ([]Entry, error) {
	if err := s.PurgeViewed(ctx, toID, now.Add(-p.Retention)); err != nil {
		return nil, fmt.Errorf("purging inbox: %w", err)
	}
	entries, err := s.Inbox(ctx, toID, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("listing inbox: %w", err)
	}
	if err := s.MarkViewed(ctx, toID); err != nil {
		return nil, fmt.Errorf("marking inbox viewed: %w", err)
	}
	return entries, nil
}
