package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/store"
)

// SeedCharacter creates a default character standing in cellID since hereSince.
// Pass a mutate func to adjust fields before insert.
func SeedCharacter(t testing.TB, s store.Store, handle string, cellID int64, hereSince time.Time, mutate ...func(*character.Character)) *character.Character {
	t.Helper()
	c, err := character.New(handle, character.Male, 1, cellID, hereSince)
	require.NoError(t, err)
	for _, m := range mutate {
		m(c)
	}
	var out *character.Character
	err = s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		var err error
		out, err = tx.CreateCharacter(ctx, c)
		return err
	})
	require.NoError(t, err)
	return out
}

// LoadCharacter reads the committed state of a character.
func LoadCharacter(t testing.TB, s store.Store, id int64) *character.Character {
	t.Helper()
	var out *character.Character
	err := s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		var err error
		out, err = tx.Character(ctx, id)
		return err
	})
	require.NoError(t, err)
	return out
}
