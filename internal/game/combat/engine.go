// Package combat resolves player-versus-player attacks: eligibility gates,
// initiative, damage, death settlement and the paired fight narratives.
package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/lock"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/observability"
)

// Result holds the two fight narratives.
type Result struct {
	Attacker string
	Defender string
	// Outcome carries the structured details behind the narratives.
	Outcome Outcome
}

// Engine resolves attacks between characters.
type Engine struct {
	world   *world.Manager
	catalog *catalog.Registry
	store   store.Store
	locks   *lock.Manager
	dice    dice.Factory
	clock   clock.Clock
	rules   Rules
	logger  *zap.Logger
}

// NewEngine creates a combat Engine.
//
// Precondition: every argument must be non-nil.
func NewEngine(w *world.Manager, reg *catalog.Registry, s store.Store, locks *lock.Manager, rng dice.Factory, clk clock.Clock, rules Rules, logger *zap.Logger) *Engine {
	return &Engine{
		world:   w,
		catalog: reg,
		store:   s,
		locks:   locks,
		dice:    rng,
		clock:   clk,
		rules:   rules,
		logger:  logger,
	}
}

// ResolveAttack runs one fight between attackerID and defenderID.
//
// Postcondition: On success both characters and one inbox entry for each side
// have been committed in a single transaction and the narratives are returned.
// On failure nothing has been written; rule violations carry the player-facing
// reason.
func (e *Engine) ResolveAttack(ctx context.Context, attackerID, defenderID int64) (Result, error) {
	op := observability.StartOperation(e.logger, "attack",
		zap.Int64("attacker_id", attackerID),
		zap.Int64("defender_id", defenderID),
	)
	res, err := e.resolve(ctx, op.Logger, attackerID, defenderID)
	op.End(err)
	return res, err
}

func (e *Engine) resolve(ctx context.Context, logger *zap.Logger, attackerID, defenderID int64) (Result, error) {
	if attackerID == defenderID {
		return Result{}, gameerr.InvalidAttack("You can't attack yourself.")
	}
	release, err := e.locks.Acquire(ctx, attackerID, defenderID)
	if err != nil {
		return Result{}, gameerr.Storage("locking combatants", err)
	}
	defer release()

	now := e.clock.Now()
	var res Result
	err = e.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		attacker, defender, err := loadPair(ctx, tx, attackerID, defenderID)
		if err != nil {
			return err
		}
		here, ok := e.world.Cell(attacker.CellID)
		if !ok {
			return gameerr.Storage("resolving location", fmt.Errorf("cell %d is not on any grid", attacker.CellID))
		}
		if err := e.rules.Check(attacker, defender, here, now); err != nil {
			return err
		}
		atk, err := e.combatant(attacker)
		if err != nil {
			return gameerr.Storage("loading attacker gear", err)
		}
		def, err := e.combatant(defender)
		if err != nil {
			return gameerr.Storage("loading defender gear", err)
		}

		attacker.HereSince = now
		out := Fight(atk, def, dice.NewLoggedSource(e.dice(), logger), now)

		if err := tx.SaveCharacter(ctx, attacker); err != nil {
			return gameerr.Storage("saving attacker", err)
		}
		if err := tx.SaveCharacter(ctx, defender); err != nil {
			return gameerr.Storage("saving defender", err)
		}
		err = tx.CreateActivity(ctx, []activity.Entry{
			activity.New(attacker.ID, defender.ID, activity.PvPAttacker, out.Attacker, now),
			activity.New(defender.ID, attacker.ID, activity.PvPDefender, out.Defender, now),
		})
		if err != nil {
			return gameerr.Storage("writing fight notices", err)
		}

		logger.Debug("fight resolved",
			zap.Stringer("initiative", out.Initiative),
			zap.Bool("attacker_first", out.AttackerFirst),
			zap.Int("strikes", len(out.Strikes)),
			zap.Int64("loser_id", out.Loser),
		)
		res = Result{Attacker: out.Attacker, Defender: out.Defender, Outcome: out}
		return nil
	})
	if err != nil {
		return Result{}, gameerr.Classify("committing attack", err)
	}
	return res, nil
}

// loadPair row-locks both characters in ascending ID order, the same global
// order lock.Manager uses, so concurrent cross attacks cannot deadlock in storage.
func loadPair(ctx context.Context, tx store.Tx, attackerID, defenderID int64) (attacker, defender *character.Character, err error) {
	ids := []int64{attackerID, defenderID}
	if defenderID < attackerID {
		ids[0], ids[1] = defenderID, attackerID
	}
	loaded := make(map[int64]*character.Character, 2)
	for _, id := range ids {
		c, err := tx.Character(ctx, id)
		if err != nil {
			role := "attacker"
			if id == defenderID {
				role = "defender"
			}
			return nil, nil, gameerr.Storage("loading "+role, err)
		}
		loaded[id] = c
	}
	return loaded[attackerID], loaded[defenderID], nil
}

func (e *Engine) combatant(c *character.Character) (Combatant, error) {
	w, err := e.catalog.LookupWeapon(c.WeaponID)
	if err != nil {
		return Combatant{}, err
	}
	a, err := e.catalog.LookupArmor(c.ArmorID)
	if err != nil {
		return Combatant{}, err
	}
	return Combatant{Character: c, Weapon: w, Armor: a}, nil
}
