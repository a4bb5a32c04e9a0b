package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/config"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/gameserver"
	"github.com/cory-johannsen/doorgame/internal/storage/memory"
	"github.com/cory-johannsen/doorgame/internal/testutil"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	svc   *gameserver.Service
	world *world.Manager
	store *memory.Store
}

func newHarness(t *testing.T) harness {
	t.Helper()
	wm, reg := testutil.NewWorld(t)
	s := memory.New()
	cfg := config.GameConfig{
		ActiveWindow:       10 * time.Minute,
		IdleWindow:         5 * time.Minute,
		LockTimeout:        time.Second,
		MaxFights:          character.MaxFights,
		MaxHumanFights:     character.MaxHumanFights,
		FairStrengthGap:    50,
		FairLevelGap:       5,
		EnforceHumanFights: true,
		InboxRetention:     10 * time.Minute,
		InboxLimit:         10,
	}
	svc := gameserver.NewService(wm, reg, s, cfg, dice.SeededFactory(7), clock.NewFixed(t0), zap.NewNop())
	return harness{svc: svc, world: wm, store: s}
}

func (h harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), h.svc, h.world, args, &out)
	return out.String(), err
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t)
	cases := [][]string{
		{},
		{"dance"},
		{"create", "Rook"},
		{"look"},
		{"look", "abc"},
		{"look", "-3"},
		{"move", "1"},
		{"move", "1", "up"},
		{"attack", "1"},
	}
	for _, args := range cases {
		_, err := h.run(t, args...)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func TestRun_CreateAndLook(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "create", "Rook", "m")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Rook (level 1, M)")
	assert.Contains(t, out, "Gold 10")

	out, err = h.run(t, "look", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Rook [Active]")
	assert.Contains(t, out, "Fixture, 1/1/1 (Grass)")
	assert.Contains(t, out, "..^\n.@.\n.\n")
	assert.Contains(t, out, "This is a no-fight zone.")
	assert.Contains(t, out, "You can travel North, West, East.")
	assert.Contains(t, out, "You are alone here.")
}

func TestRun_LookListsNeighbors(t *testing.T) {
	h := newHarness(t)
	me := testutil.SeedCharacter(t, h.store, "Rook", testutil.CellN, t0)
	testutil.SeedCharacter(t, h.store, "Wren", testutil.CellN, t0.Add(-7*time.Minute))

	out, err := h.run(t, "look", itoa(me.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Fixture, 1/1/0 (Grass)")
	assert.Contains(t, out, ".@^\n...\n.\n")
	assert.Contains(t, out, "Also here:")
	assert.Contains(t, out, "Wren (level 1) Idle")
	assert.Contains(t, out, "You can travel South, West.")
}

func TestRun_MoveThenInbox(t *testing.T) {
	h := newHarness(t)
	mover := testutil.SeedCharacter(t, h.store, "Rook", testutil.CellSquare, t0)
	watcher := testutil.SeedCharacter(t, h.store, "Wren", testutil.CellN, t0)

	out, err := h.run(t, "move", itoa(mover.ID), "north")
	require.NoError(t, err)
	assert.Equal(t, "You travel North to 1/1/0.\n", out)

	out, err = h.run(t, "inbox", itoa(watcher.ID))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "* 12:00:00 [A player walked up.]"), out)

	out, err = h.run(t, "inbox", itoa(watcher.ID))
	require.NoError(t, err)
	assert.Equal(t, "Nothing new.\n", out)
}

func TestRun_MoveRejected(t *testing.T) {
	h := newHarness(t)
	c := testutil.SeedCharacter(t, h.store, "Rook", testutil.CellN, t0)

	_, err := h.run(t, "move", itoa(c.ID), "e")
	assert.ErrorIs(t, err, gameerr.ErrInvalidMove)
	assert.True(t, gameerr.IsRuleViolation(err))
}

func TestRun_Attack(t *testing.T) {
	h := newHarness(t)
	a := testutil.SeedCharacter(t, h.store, "Rook", testutil.CellN, t0)
	d := testutil.SeedCharacter(t, h.store, "Wren", testutil.CellN, t0)

	out, err := h.run(t, "attack", itoa(a.ID), itoa(d.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.True(t, strings.HasSuffix(out, "\n"))

	_, err = h.run(t, "attack", itoa(a.ID), itoa(a.ID))
	assert.ErrorIs(t, err, gameerr.ErrInvalidAttack)
}

func TestRun_Reset(t *testing.T) {
	h := newHarness(t)
	c := testutil.SeedCharacter(t, h.store, "Rook", testutil.CellN, t0, func(c *character.Character) {
		c.HitPoints = 0
		c.Dead = true
		c.FightsLeft = 0
	})

	out, err := h.run(t, "reset", itoa(c.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "HP 10/10")
	got := testutil.LoadCharacter(t, h.store, c.ID)
	assert.False(t, got.Dead)
}

func TestRun_UnknownCharacterIsStorageError(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "look", "99")
	require.Error(t, err)
	assert.ErrorIs(t, err, gameerr.ErrStorage)
	assert.False(t, gameerr.IsRuleViolation(err))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
