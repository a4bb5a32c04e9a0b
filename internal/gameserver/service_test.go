package gameserver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/config"
	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/gameserver"
	"github.com/cory-johannsen/doorgame/internal/storage/memory"
	"github.com/cory-johannsen/doorgame/internal/testutil"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func gameConfig() config.GameConfig {
	return config.GameConfig{
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
}

func newService(t *testing.T) (*gameserver.Service, *memory.Store, *clock.Fixed) {
	t.Helper()
	w, reg := testutil.NewWorld(t)
	s := memory.New()
	clk := clock.NewFixed(t0)
	svc := gameserver.NewService(w, reg, s, gameConfig(), dice.SeededFactory(1), clk, zap.NewNop())
	return svc, s, clk
}

func TestCreate_PlacesOnStartCell(t *testing.T) {
	svc, _, _ := newService(t)
	c, err := svc.Create(context.Background(), "  Rook  ", character.Male)
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "Rook", c.Handle)
	assert.Equal(t, testutil.CellSquare, c.CellID)
	assert.Equal(t, int64(1), c.WorldMapID)
	assert.Equal(t, t0, c.HereSince)
}

func TestService_UsesConfiguredLimits(t *testing.T) {
	w, reg := testutil.NewWorld(t)
	s := memory.New()
	cfg := gameConfig()
	cfg.MaxFights, cfg.MaxHumanFights = 3, 2
	svc := gameserver.NewService(w, reg, s, cfg, dice.SeededFactory(1), clock.NewFixed(t0), zap.NewNop())

	created, err := svc.Create(context.Background(), "Rook", character.Male)
	require.NoError(t, err)
	assert.Equal(t, 3, created.FightsLeft)
	assert.Equal(t, 2, created.HumanFightsLeft)

	c := testutil.SeedCharacter(t, s, "Wren", testutil.CellN, t0, func(c *character.Character) {
		c.FightsLeft, c.HumanFightsLeft = 0, 0
	})
	got, err := svc.Reset(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.FightsLeft)
	assert.Equal(t, 2, got.HumanFightsLeft)

	v, err := svc.Look(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Fights.Percent)
	assert.Equal(t, 100, v.HumanFights.Percent)
}

func TestCreate_Rejections(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Create(context.Background(), "", character.Male)
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), "Rook", character.Gender("X"))
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), "Rook", character.Male)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "rook", character.Female)
	assert.ErrorIs(t, err, store.ErrHandleTaken)
}

func TestLook(t *testing.T) {
	svc, s, _ := newService(t)
	me := testutil.SeedCharacter(t, s, "Rook", testutil.CellN, t0)
	testutil.SeedCharacter(t, s, "Idler", testutil.CellN, t0.Add(-7*time.Minute))
	testutil.SeedCharacter(t, s, "Gone", testutil.CellN, t0.Add(-time.Hour))

	v, err := svc.Look(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, character.StatusActive, v.Status)
	assert.Equal(t, "Grass", v.Terrain.Name)
	assert.Equal(t, "Fixture", v.Grid.Name)
	assert.Equal(t, "Fists", v.Weapon.Name)
	assert.Equal(t, character.Gauge{Level: "success", Percent: 100}, v.HP)
	assert.Len(t, v.Surroundings, 6)

	require.Len(t, v.Exits, 3)
	assert.Equal(t, world.South, v.Exits[0].Direction)
	assert.Equal(t, world.West, v.Exits[1].Direction)
	assert.Equal(t, world.East, v.Exits[2].Direction)
	assert.False(t, v.Exits[2].Passable, "mountain")

	require.Len(t, v.Nearby, 1)
	assert.Equal(t, "Idler", v.Nearby[0].Handle)
	assert.Equal(t, character.StatusIdle, v.Nearby[0].Status)
}

func TestLook_UnknownCharacter(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Look(context.Background(), 12)
	require.ErrorIs(t, err, gameerr.ErrStorage)
	assert.ErrorIs(t, err, store.ErrCharacterNotFound)
}

func TestReset(t *testing.T) {
	svc, s, clk := newService(t)
	c := testutil.SeedCharacter(t, s, "Rook", testutil.CellN, t0, func(c *character.Character) {
		c.Dead = true
		c.HitPoints = -4
		c.FightsLeft = 0
		c.HumanFightsLeft = 2
		c.SeenDragon = true
		c.Flirted = true
		c.Gold = 99
	})
	clk.Advance(24 * time.Hour)

	got, err := svc.Reset(context.Background(), c.ID)
	require.NoError(t, err)
	assert.False(t, got.Dead)
	assert.Equal(t, got.HitPointsMax, got.HitPoints)
	assert.Equal(t, character.MaxFights, got.FightsLeft)
	assert.Equal(t, character.MaxHumanFights, got.HumanFightsLeft)
	assert.False(t, got.SeenDragon)
	assert.False(t, got.Flirted)
	assert.Equal(t, 99, got.Gold)

	stored, _ := s.Character(c.ID)
	assert.Equal(t, got, stored)
}

func TestMoveThenInbox(t *testing.T) {
	svc, s, clk := newService(t)
	mover := testutil.SeedCharacter(t, s, "Rook", testutil.CellSquare, t0)
	watcher := testutil.SeedCharacter(t, s, "Vera", testutil.CellSquare, t0)

	_, err := svc.Move(context.Background(), mover.ID, world.North)
	require.NoError(t, err)

	entries, err := svc.Inbox(context.Background(), watcher.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.Departure, entries[0].Category)
	assert.False(t, entries[0].Viewed)

	clk.Advance(time.Minute)
	entries, err = svc.Inbox(context.Background(), watcher.ID)
	require.NoError(t, err)
	assert.Empty(t, entries, "seen departures are dropped")
}

func TestAttack_ThroughService(t *testing.T) {
	svc, s, _ := newService(t)
	a := testutil.SeedCharacter(t, s, "Rook", testutil.CellN, t0)
	d := testutil.SeedCharacter(t, s, "Vera", testutil.CellN, t0)

	res, err := svc.Attack(context.Background(), a.ID, d.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Attacker)
	assert.NotEmpty(t, res.Defender)

	entries, err := svc.Inbox(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.PvPDefender, entries[0].Category)
	assert.Equal(t, res.Defender, entries[0].Message)
}

func TestAttack_InSafeSquare(t *testing.T) {
	svc, s, _ := newService(t)
	a := testutil.SeedCharacter(t, s, "Rook", testutil.CellSquare, t0)
	d := testutil.SeedCharacter(t, s, "Vera", testutil.CellSquare, t0)

	_, err := svc.Attack(context.Background(), a.ID, d.ID)
	assert.ErrorIs(t, err, gameerr.ErrInvalidAttack)
}
