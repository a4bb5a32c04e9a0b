// Package gameserver exposes the door game operations behind one Service: the
// request/response boundary used by the operator CLI.
package gameserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/config"
	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/combat"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/lock"
	"github.com/cory-johannsen/doorgame/internal/game/movement"
	"github.com/cory-johannsen/doorgame/internal/game/presence"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/observability"
)

// Service runs game operations against a store.
type Service struct {
	world    *world.Manager
	catalog  *catalog.Registry
	store    store.Store
	locks    *lock.Manager
	presence *presence.Tracker
	clock    clock.Clock
	windows  character.Windows
	limits   character.Limits
	inbox    activity.Policy
	movement *movement.Engine
	combat   *combat.Engine
	logger   *zap.Logger
}

// NewService wires the engines from cfg.
//
// Precondition: every pointer argument must be non-nil; cfg must have passed Validate.
func NewService(w *world.Manager, reg *catalog.Registry, s store.Store, cfg config.GameConfig, rng dice.Factory, clk clock.Clock, logger *zap.Logger) *Service {
	locks := lock.NewManager(cfg.LockTimeout)
	tracker := presence.NewTracker(cfg.ActiveWindow)
	rules := combat.Rules{
		StrengthGap:        cfg.FairStrengthGap,
		LevelGap:           cfg.FairLevelGap,
		Windows:            cfg.Windows(),
		EnforceHumanFights: cfg.EnforceHumanFights,
	}
	return &Service{
		world:    w,
		catalog:  reg,
		store:    s,
		locks:    locks,
		presence: tracker,
		clock:    clk,
		windows:  cfg.Windows(),
		limits:   cfg.Limits(),
		inbox:    cfg.InboxPolicy(),
		movement: movement.NewEngine(w, s, locks, tracker, clk, logger),
		combat:   combat.NewEngine(w, reg, s, locks, rng, clk, rules, logger),
		logger:   logger,
	}
}

// Create makes a new character on the default grid's start cell.
//
// Postcondition: Returns the persisted character, a validation error, or an
// error wrapping store.ErrHandleTaken.
func (s *Service) Create(ctx context.Context, handle string, gender character.Gender) (*character.Character, error) {
	g := s.world.DefaultGrid()
	c, err := character.New(handle, gender, g.ID, g.StartCellID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	c.FightsLeft, c.HumanFightsLeft = s.limits.Fights, s.limits.HumanFights
	var out *character.Character
	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		out, err = tx.CreateCharacter(ctx, c)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating character %q: %w", c.Handle, err)
	}
	s.logger.Info("character created",
		zap.Int64("character_id", out.ID),
		zap.String("handle", out.Handle),
		zap.Int64("cell_id", out.CellID),
	)
	return out, nil
}

// Move steps a character one cell.
func (s *Service) Move(ctx context.Context, characterID int64, dir world.Direction) (*movement.Result, error) {
	return s.movement.Move(ctx, characterID, dir)
}

// Attack fights attackerID against defenderID.
func (s *Service) Attack(ctx context.Context, attackerID, defenderID int64) (combat.Result, error) {
	return s.combat.ResolveAttack(ctx, attackerID, defenderID)
}

// Reset starts a new turn cycle for a character.
//
// Postcondition: The saved character satisfies character.Reset's postcondition.
func (s *Service) Reset(ctx context.Context, characterID int64) (*character.Character, error) {
	op := observability.StartOperation(s.logger, "reset", zap.Int64("character_id", characterID))
	out, err := s.withCharacter(ctx, characterID, func(ctx context.Context, tx store.Tx, c *character.Character) error {
		c.Reset(s.clock.Now(), s.limits)
		return tx.SaveCharacter(ctx, c)
	})
	op.End(err)
	return out, err
}

// Inbox returns a character's visible notifications and applies the read policy.
// The returned entries carry their pre-read Viewed flag.
func (s *Service) Inbox(ctx context.Context, characterID int64) ([]activity.Entry, error) {
	var entries []activity.Entry
	_, err := s.withCharacter(ctx, characterID, func(ctx context.Context, tx store.Tx, c *character.Character) error {
		var err error
		entries, err = activity.Read(ctx, tx, c.ID, s.clock.Now(), s.inbox)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// withCharacter locks and loads one character, runs fn in the same transaction,
// and classifies failures.
func (s *Service) withCharacter(ctx context.Context, id int64, fn func(ctx context.Context, tx store.Tx, c *character.Character) error) (*character.Character, error) {
	release, err := s.locks.Acquire(ctx, id)
	if err != nil {
		return nil, gameerr.Storage("locking character", err)
	}
	defer release()

	var out *character.Character
	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		c, err := tx.Character(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, gameerr.Classify(fmt.Sprintf("character %d", id), err)
	}
	return out, nil
}
