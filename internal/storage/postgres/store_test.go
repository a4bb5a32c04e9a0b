package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/storage/postgres"
	"github.com/cory-johannsen/doorgame/internal/testutil"
)

// t0 is truncated to postgres timestamp precision.
var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*postgres.Store, *testutil.PostgresContainer) {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.Store(), pc
}

func TestStore_Integration(t *testing.T) {
	s, pc := newStore(t)
	ctx := context.Background()

	t.Run("connections carry the application name", func(t *testing.T) {
		var name string
		require.NoError(t, pc.RawPool.QueryRow(ctx, `SELECT current_setting('application_name')`).Scan(&name))
		assert.Equal(t, postgres.ApplicationName, name)
	})

	t.Run("row lock wait is bounded and peek does not block", func(t *testing.T) {
		c := testutil.SeedCharacter(t, s, "Holder", 5, t0)

		holder, err := pc.RawPool.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = holder.Rollback(ctx) }()
		_, err = holder.Exec(ctx, `SELECT id FROM characters WHERE id = $1 FOR UPDATE`, c.ID)
		require.NoError(t, err)

		start := time.Now()
		err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			_, err := tx.Character(ctx, c.ID)
			return err
		})
		assert.ErrorIs(t, err, store.ErrLockTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)

		err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			got, err := tx.PeekCharacter(ctx, c.ID)
			if err == nil {
				assert.Equal(t, "Holder", got.Handle)
			}
			return err
		})
		assert.NoError(t, err)
	})

	t.Run("create and load round trip", func(t *testing.T) {
		c := testutil.SeedCharacter(t, s, "Rook", 5, t0, func(c *character.Character) {
			c.Gender = character.Female
			c.SeenDragon = true
		})
		assert.NotZero(t, c.ID)

		got := testutil.LoadCharacter(t, s, c.ID)
		assert.Equal(t, "Rook", got.Handle)
		assert.Equal(t, character.Female, got.Gender)
		assert.True(t, got.SeenDragon)
		assert.True(t, got.HereSince.Equal(t0))
		assert.True(t, got.LastDeadTime.IsZero())
	})

	t.Run("duplicate handle is case-insensitive", func(t *testing.T) {
		testutil.SeedCharacter(t, s, "Vera", 5, t0)
		c, _ := character.New("VERA", character.Female, 1, 5, t0)
		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			_, err := tx.CreateCharacter(ctx, c)
			return err
		})
		assert.ErrorIs(t, err, store.ErrHandleTaken)
	})

	t.Run("missing character", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			_, err := tx.Character(ctx, 987654)
			return err
		})
		assert.ErrorIs(t, err, store.ErrCharacterNotFound)
	})

	t.Run("save persists mutations", func(t *testing.T) {
		c := testutil.SeedCharacter(t, s, "Saver", 5, t0)
		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			got, err := tx.Character(ctx, c.ID)
			if err != nil {
				return err
			}
			got.TakeDamage(got.HitPoints, t0)
			got.Gold = 77
			got.CellID = 6
			return tx.SaveCharacter(ctx, got)
		})
		require.NoError(t, err)

		got := testutil.LoadCharacter(t, s, c.ID)
		assert.True(t, got.Dead)
		assert.Equal(t, 77, got.Gold)
		assert.Equal(t, int64(6), got.CellID)
		assert.True(t, got.LastDeadTime.Equal(t0))
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		c := testutil.SeedCharacter(t, s, "Roller", 5, t0)
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			got, err := tx.Character(ctx, c.ID)
			if err != nil {
				return err
			}
			got.Gold = 1000
			if err := tx.SaveCharacter(ctx, got); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, character.StartGold, testutil.LoadCharacter(t, s, c.ID).Gold)
	})

	t.Run("characters at cell honour window", func(t *testing.T) {
		fresh := testutil.SeedCharacter(t, s, "Fresh", 42, t0)
		testutil.SeedCharacter(t, s, "Old", 42, t0.Add(-time.Hour))
		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			got, err := tx.CharactersAt(ctx, 42, t0.Add(-10*time.Minute))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, fresh.ID, got[0].ID)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("inbox read policy", func(t *testing.T) {
		to := testutil.SeedCharacter(t, s, "Reader", 5, t0)
		from := testutil.SeedCharacter(t, s, "Writer", 5, t0)
		err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			return tx.CreateActivity(ctx, []activity.Entry{
				activity.New(to.ID, from.ID, activity.PvPDefender, "You were attacked.", t0),
				activity.New(to.ID, from.ID, activity.Arrival, "You see Writer appear from the East.", t0),
				activity.New(to.ID, 0, activity.Event, "A bard sings.", t0),
			})
		})
		require.NoError(t, err)

		read := func(at time.Time) []activity.Entry {
			var out []activity.Entry
			require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
				var err error
				out, err = activity.Read(ctx, tx, to.ID, at, activity.DefaultPolicy)
				return err
			}))
			return out
		}

		first := read(t0)
		require.Len(t, first, 3)
		assert.Equal(t, "A bard sings.", first[0].Message, "newest first")
		assert.Zero(t, first[0].FromID)
		assert.False(t, first[0].Viewed)

		second := read(t0.Add(time.Minute))
		assert.Len(t, second, 2, "viewed arrival is purged")

		assert.Empty(t, read(t0.Add(time.Hour)))
	})
}
