// Package movement executes single-step moves between adjacent cells and
// announces them to the characters present at both ends.
package movement

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/lock"
	"github.com/cory-johannsen/doorgame/internal/game/presence"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/observability"
)

// Result describes a completed move.
type Result struct {
	// Character is the mover as persisted.
	Character *character.Character
	From      *world.Cell
	To        *world.Cell
	// Departures and Arrivals count the notices written to each end.
	Departures int
	Arrivals   int
}

// Engine moves characters across the world grid.
type Engine struct {
	world    *world.Manager
	store    store.Store
	locks    *lock.Manager
	presence *presence.Tracker
	clock    clock.Clock
	logger   *zap.Logger
}

// NewEngine creates a movement Engine.
//
// Precondition: every argument must be non-nil.
func NewEngine(w *world.Manager, s store.Store, locks *lock.Manager, p *presence.Tracker, clk clock.Clock, logger *zap.Logger) *Engine {
	return &Engine{
		world:    w,
		store:    s,
		locks:    locks,
		presence: p,
		clock:    clk,
		logger:   logger,
	}
}

// Move steps the character one cell in dir.
//
// Precondition: dir is one of world.Directions.
// Postcondition: On success the character's CellID is the neighbor in dir and
// HereSince is now, and one departure notice per character present in the old
// cell plus one arrival notice per character present in the new cell have been
// written, all in one transaction. On failure nothing has been written.
func (e *Engine) Move(ctx context.Context, characterID int64, dir world.Direction) (*Result, error) {
	op := observability.StartOperation(e.logger, "move",
		zap.Int64("character_id", characterID),
		zap.String("direction", string(dir)),
	)
	res, err := e.move(ctx, characterID, dir)
	if res != nil {
		op.Logger.Debug("moved",
			zap.Stringer("from", res.From),
			zap.Stringer("to", res.To),
			zap.Int("departures", res.Departures),
			zap.Int("arrivals", res.Arrivals),
		)
	}
	op.End(err)
	return res, err
}

func (e *Engine) move(ctx context.Context, characterID int64, dir world.Direction) (*Result, error) {
	release, err := e.locks.Acquire(ctx, characterID)
	if err != nil {
		return nil, gameerr.Storage("locking character", err)
	}
	defer release()

	now := e.clock.Now()
	var res *Result
	err = e.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		c, err := tx.Character(ctx, characterID)
		if err != nil {
			return gameerr.Storage("loading character", err)
		}
		if c.Dead {
			return gameerr.PlayerDead("You are dead.  You're not going anywhere.")
		}
		from, ok := e.world.Cell(c.CellID)
		if !ok {
			return gameerr.Storage("resolving location", fmt.Errorf("cell %d is not on any grid", c.CellID))
		}
		to, ok := e.world.Neighbor(from, dir)
		if !ok {
			return gameerr.InvalidMove("You cannot move %s from here.", dir.Name())
		}
		if !e.world.IsPassable(to) {
			return gameerr.InvalidMove("Terrain to the %s is not passable.", dir.Name())
		}

		leaving, err := e.presence.ActiveAt(ctx, tx, from.ID, now, c.ID)
		if err != nil {
			return gameerr.Storage("finding characters at origin", err)
		}
		joining, err := e.presence.ActiveAt(ctx, tx, to.ID, now, c.ID)
		if err != nil {
			return gameerr.Storage("finding characters at destination", err)
		}

		notices := activity.Departures(presence.IDs(leaving), c.ID, c.Handle, dir.Name(), now)
		notices = append(notices, activity.Arrivals(presence.IDs(joining), c.ID, c.Handle, dir.Opposite().Name(), now)...)
		if len(notices) > 0 {
			if err := tx.CreateActivity(ctx, notices); err != nil {
				return gameerr.Storage("writing move notices", err)
			}
		}

		c.CellID = to.ID
		c.HereSince = now
		if err := tx.SaveCharacter(ctx, c); err != nil {
			return gameerr.Storage("saving character", err)
		}
		res = &Result{
			Character:  c,
			From:       from,
			To:         to,
			Departures: len(leaving),
			Arrivals:   len(joining),
		}
		return nil
	})
	if err != nil {
		return nil, gameerr.Classify("committing move", err)
	}
	return res, nil
}
