package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/storage/memory"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestCategory_Valid(t *testing.T) {
	for _, c := range activity.Categories {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.Label())
	}
	assert.False(t, activity.Category("shop").Valid())
}

func TestCategory_Transient(t *testing.T) {
	assert.True(t, activity.Arrival.Transient())
	assert.True(t, activity.Departure.Transient())
	assert.False(t, activity.PvPAttacker.Transient())
	assert.False(t, activity.PvPDefender.Transient())
	assert.False(t, activity.Event.Transient())
}

func TestEntry_Validate(t *testing.T) {
	assert.NoError(t, activity.New(1, 2, activity.Event, "hello", now).Validate())
	assert.Error(t, activity.New(0, 2, activity.Event, "hello", now).Validate())
	assert.Error(t, activity.New(1, 2, activity.Event, "", now).Validate())
	assert.Error(t, activity.New(1, 2, "nope", "hello", now).Validate())
}

func TestDepartures(t *testing.T) {
	got := activity.Departures([]int64{3, 4}, 9, "Rook", "North", now)
	require.Len(t, got, 2)
	for i, e := range got {
		assert.Equal(t, []int64{3, 4}[i], e.ToID)
		assert.Equal(t, int64(9), e.FromID)
		assert.Equal(t, activity.Departure, e.Category)
		assert.Equal(t, "You see Rook wander off to the North.", e.Message)
		assert.Equal(t, now, e.CreatedAt)
		assert.False(t, e.Viewed)
	}
}

func TestArrivals(t *testing.T) {
	got := activity.Arrivals([]int64{5}, 9, "Rook", "South", now)
	require.Len(t, got, 1)
	assert.Equal(t, activity.Arrival, got[0].Category)
	assert.Equal(t, "You see Rook appear from the South.", got[0].Message)
}

func TestArrivals_NoRecipients(t *testing.T) {
	assert.Empty(t, activity.Arrivals(nil, 9, "Rook", "South", now))
}

func seed(t *testing.T, s *memory.Store, entries ...activity.Entry) {
	t.Helper()
	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return tx.CreateActivity(ctx, entries)
	}))
}

func read(t *testing.T, s *memory.Store, toID int64, at time.Time) []activity.Entry {
	t.Helper()
	var out []activity.Entry
	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		var err error
		out, err = activity.Read(ctx, tx, toID, at, activity.DefaultPolicy)
		return err
	}))
	return out
}

func TestRead_MarksViewedAndReportsNew(t *testing.T) {
	s := memory.New()
	seed(t, s,
		activity.New(1, 2, activity.PvPDefender, "You were hit.", now),
		activity.New(1, 2, activity.Arrival, "You see Bob appear from the East.", now),
	)

	first := read(t, s, 1, now)
	require.Len(t, first, 2)
	for _, e := range first {
		assert.False(t, e.Viewed, "first read reports entries as new")
	}

	second := read(t, s, 1, now.Add(time.Minute))
	require.Len(t, second, 1, "viewed arrival notices are dropped")
	assert.Equal(t, activity.PvPDefender, second[0].Category)
	assert.True(t, second[0].Viewed)
}

func TestRead_PurgesViewedPastRetention(t *testing.T) {
	s := memory.New()
	seed(t, s, activity.New(1, 2, activity.PvPDefender, "old news", now))
	read(t, s, 1, now)

	got := read(t, s, 1, now.Add(11*time.Minute))
	assert.Empty(t, got)
}

func TestRead_KeepsUnviewedPastRetention(t *testing.T) {
	s := memory.New()
	seed(t, s, activity.New(1, 2, activity.Event, "unseen", now))

	got := read(t, s, 1, now.Add(time.Hour))
	require.Len(t, got, 1)
	assert.Equal(t, "unseen", got[0].Message)
}

func TestRead_Limit(t *testing.T) {
	s := memory.New()
	var entries []activity.Entry
	for i := 0; i < 15; i++ {
		entries = append(entries, activity.New(1, 0, activity.Event, "event", now.Add(time.Duration(i)*time.Second)))
	}
	seed(t, s, entries...)
	assert.Len(t, read(t, s, 1, now.Add(time.Minute)), activity.DefaultPolicy.Limit)
}

type failingInbox struct{ err error }

func (f failingInbox) PurgeViewed(context.Context, int64, time.Time) error { return f.err }
func (f failingInbox) MarkViewed(context.Context, int64) error             { return nil }
func (f failingInbox) Inbox(context.Context, int64, int) ([]activity.Entry, error) {
	return nil, nil
}

func TestRead_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := activity.Read(context.Background(), failingInbox{err: boom}, 1, now, activity.DefaultPolicy)
	assert.ErrorIs(t, err, boom)
}
