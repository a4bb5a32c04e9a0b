// Package presence decides which characters are "here": present in a cell
// within the trailing activity window.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/cory-johannsen/doorgame/internal/game/character"
)

// Finder loads characters by location.
type Finder interface {
	CharactersAt(ctx context.Context, cellID int64, since time.Time) ([]*character.Character, error)
}

// Tracker answers presence queries against a fixed trailing window.
type Tracker struct {
	window time.Duration
}

// NewTracker returns a Tracker using window as the active threshold.
//
// Precondition: window > 0.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{window: window}
}

// Window returns the active threshold.
func (t *Tracker) Window() time.Duration { return t.window }

// Since returns the earliest HereSince that still counts as present at now.
func (t *Tracker) Since(now time.Time) time.Time {
	return now.Add(-t.window)
}

// ActiveAt returns characters in cellID who arrived after now-window, minus excludeID.
// Pass excludeID 0 to exclude nobody.
//
// Postcondition: Every returned character has HereSince > now-window and ID != excludeID.
func (t *Tracker) ActiveAt(ctx context.Context, f Finder, cellID int64, now time.Time, excludeID int64) ([]*character.Character, error) {
	since := t.Since(now)
	found, err := f.CharactersAt(ctx, cellID, since)
	if err != nil {
		return nil, fmt.Errorf("finding characters at cell %d: %w", cellID, err)
	}
	out := make([]*character.Character, 0, len(found))
	for _, c := range found {
		if c.ID == excludeID || !c.HereSince.After(since) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Nearby returns the other characters present in c's cell.
func (t *Tracker) Nearby(ctx context.Context, f Finder, c *character.Character, now time.Time) ([]*character.Character, error) {
	return t.ActiveAt(ctx, f, c.CellID, now, c.ID)
}

// IDs extracts character IDs in order.
func IDs(cs []*character.Character) []int64 {
	ids := make([]int64, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}
