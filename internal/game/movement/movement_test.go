package movement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/lock"
	"github.com/cory-johannsen/doorgame/internal/game/movement"
	"github.com/cory-johannsen/doorgame/internal/game/presence"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/storage/memory"
	"github.com/cory-johannsen/doorgame/internal/testutil"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine *movement.Engine
	store  *memory.Store
	clock  *clock.Fixed
	locks  *lock.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, _ := testutil.NewWorld(t)
	s := memory.New()
	clk := clock.NewFixed(t0)
	locks := lock.NewManager(50 * time.Millisecond)
	e := movement.NewEngine(w, s, locks, presence.NewTracker(10*time.Minute), clk, zap.NewNop())
	return &fixture{engine: e, store: s, clock: clk, locks: locks}
}

func TestMove_UpdatesLocation(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellSquare, t0.Add(-time.Hour))

	res, err := f.engine.Move(context.Background(), mover.ID, world.North)
	require.NoError(t, err)
	assert.Equal(t, testutil.CellSquare, res.From.ID)
	assert.Equal(t, testutil.CellN, res.To.ID)

	got, _ := f.store.Character(mover.ID)
	assert.Equal(t, testutil.CellN, got.CellID)
	assert.Equal(t, t0, got.HereSince)
}

func TestMove_AnnouncesDepartureAndArrival(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellSquare, t0.Add(-time.Minute))
	left := testutil.SeedCharacter(t, f.store, "Left", testutil.CellSquare, t0.Add(-2*time.Minute))
	waiting := testutil.SeedCharacter(t, f.store, "Waiting", testutil.CellE, t0.Add(-3*time.Minute))
	stale := testutil.SeedCharacter(t, f.store, "Stale", testutil.CellE, t0.Add(-time.Hour))

	res, err := f.engine.Move(context.Background(), mover.ID, world.East)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Departures)
	assert.Equal(t, 1, res.Arrivals)

	dep := f.store.Activity(left.ID)
	require.Len(t, dep, 1)
	assert.Equal(t, activity.Departure, dep[0].Category)
	assert.Equal(t, "You see Rook wander off to the East.", dep[0].Message)
	assert.Equal(t, mover.ID, dep[0].FromID)

	arr := f.store.Activity(waiting.ID)
	require.Len(t, arr, 1)
	assert.Equal(t, activity.Arrival, arr[0].Category)
	assert.Equal(t, "You see Rook appear from the West.", arr[0].Message)

	assert.Empty(t, f.store.Activity(stale.ID))
	assert.Empty(t, f.store.Activity(mover.ID))
}

func TestMove_DeadCharacter(t *testing.T) {
	f := newFixture(t)
	ghost := testutil.SeedCharacter(t, f.store, "Ghost", testutil.CellSquare, t0, func(c *character.Character) {
		c.Dead = true
		c.HitPoints = 0
	})

	_, err := f.engine.Move(context.Background(), ghost.ID, world.North)
	require.ErrorIs(t, err, gameerr.ErrPlayerDead)
	assert.Equal(t, "You are dead.  You're not going anywhere.", err.Error())
}

func TestMove_NoCellThatWay(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellNW, t0)
	testutil.SeedCharacter(t, f.store, "Watcher", testutil.CellNW, t0)

	_, err := f.engine.Move(context.Background(), mover.ID, world.North)
	require.ErrorIs(t, err, gameerr.ErrInvalidMove)
	assert.Equal(t, "You cannot move North from here.", err.Error())
	assert.Zero(t, f.store.ActivityCount())
}

func TestMove_HoleInGrid(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellSW, t0)

	_, err := f.engine.Move(context.Background(), mover.ID, world.East)
	require.ErrorIs(t, err, gameerr.ErrInvalidMove)
	assert.Equal(t, "You cannot move East from here.", err.Error())
}

func TestMove_Impassable(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellN, t0)
	testutil.SeedCharacter(t, f.store, "Watcher", testutil.CellN, t0)

	_, err := f.engine.Move(context.Background(), mover.ID, world.East)
	require.ErrorIs(t, err, gameerr.ErrInvalidMove)
	assert.Equal(t, "Terrain to the East is not passable.", err.Error())
	assert.Zero(t, f.store.ActivityCount())

	got, _ := f.store.Character(mover.ID)
	assert.Equal(t, testutil.CellN, got.CellID)
}

func TestMove_UnknownCharacter(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Move(context.Background(), 404, world.North)
	assert.ErrorIs(t, err, gameerr.ErrStorage)
}

func TestMove_StorageFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellSquare, t0)
	left := testutil.SeedCharacter(t, f.store, "Left", testutil.CellSquare, t0)
	boom := errors.New("disk full")
	f.store.FailNextCommit(boom)

	_, err := f.engine.Move(context.Background(), mover.ID, world.West)
	require.ErrorIs(t, err, gameerr.ErrStorage)
	assert.ErrorIs(t, err, boom)

	got, _ := f.store.Character(mover.ID)
	assert.Equal(t, testutil.CellSquare, got.CellID)
	assert.Empty(t, f.store.Activity(left.ID))
}

func TestMove_LockTimeout(t *testing.T) {
	f := newFixture(t)
	mover := testutil.SeedCharacter(t, f.store, "Rook", testutil.CellSquare, t0)

	release, err := f.locks.Acquire(context.Background(), mover.ID)
	require.NoError(t, err)
	defer release()

	_, err = f.engine.Move(context.Background(), mover.ID, world.West)
	require.ErrorIs(t, err, gameerr.ErrStorage)
	assert.ErrorIs(t, err, lock.ErrTimeout)
}

func TestProperty_FailedMovesWriteNothing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		start := rapid.SampledFrom([]int64{
			testutil.CellNW, testutil.CellN, testutil.CellW, testutil.CellSquare, testutil.CellE, testutil.CellSW,
		}).Draw(rt, "start")
		dir := rapid.SampledFrom(world.Directions).Draw(rt, "dir")
		mover := testutil.SeedCharacter(t, f.store, "Rook", start, t0)
		testutil.SeedCharacter(t, f.store, "Near", start, t0)

		_, err := f.engine.Move(context.Background(), mover.ID, dir)
		got, _ := f.store.Character(mover.ID)
		if err != nil {
			assert.ErrorIs(rt, err, gameerr.ErrInvalidMove)
			assert.Zero(rt, f.store.ActivityCount())
			assert.Equal(rt, start, got.CellID)
			return
		}
		assert.NotEqual(rt, start, got.CellID)
		assert.LessOrEqual(rt, got.HitPoints, got.HitPointsMax)
	})
}
