package gameserver

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/store"
	"github.com/cory-johannsen/doorgame/internal/game/world"
)

// Exit describes one neighboring cell.
type Exit struct {
	Direction world.Direction
	Cell      *world.Cell
	Passable  bool
}

// Neighbor is another character present in the same cell.
type Neighbor struct {
	ID     int64
	Handle string
	Level  int
	Status character.Status
}

// View is everything a character can see from where they stand.
type View struct {
	Character   *character.Character
	Status      character.Status
	HP          character.Gauge
	Fights      character.Gauge
	HumanFights character.Gauge
	Weapon      *catalog.Weapon
	Armor       *catalog.Armor

	Grid    *world.Grid
	Cell    *world.Cell
	Terrain *catalog.Terrain
	// Surroundings is the 3x3 neighborhood including Cell.
	Surroundings []*world.Cell
	// Exits is ordered N, S, W, E and omits directions with no cell.
	Exits  []Exit
	Nearby []Neighbor
}

// Look builds the View for a character. It takes neither character locks nor row locks.
func (s *Service) Look(ctx context.Context, characterID int64) (*View, error) {
	now := s.clock.Now()
	var v *View
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		c, err := tx.PeekCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		cell, ok := s.world.Cell(c.CellID)
		if !ok {
			return fmt.Errorf("cell %d is not on any grid", c.CellID)
		}
		grid, _ := s.world.Grid(cell.GridID)
		terrain, _ := s.world.Terrain(cell)
		weapon, _ := s.catalog.Weapon(c.WeaponID)
		armor, _ := s.catalog.Armor(c.ArmorID)

		v = &View{
			Character:    c,
			Status:       character.DeriveStatus(c, now, s.windows),
			HP:           c.HPStatus(),
			Fights:       c.FightStatus(s.limits),
			HumanFights:  c.HumanFightStatus(s.limits),
			Weapon:       weapon,
			Armor:        armor,
			Grid:         grid,
			Cell:         cell,
			Terrain:      terrain,
			Surroundings: s.world.SurroundingCells(cell),
		}
		moves := s.world.PossibleMoves(cell)
		for _, d := range world.Directions {
			if n, ok := moves[d]; ok {
				v.Exits = append(v.Exits, Exit{Direction: d, Cell: n, Passable: s.world.IsPassable(n)})
			}
		}

		nearby, err := s.presence.Nearby(ctx, tx, c, now)
		if err != nil {
			return err
		}
		for _, n := range nearby {
			v.Nearby = append(v.Nearby, Neighbor{
				ID:     n.ID,
				Handle: n.Handle,
				Level:  n.Level,
				Status: character.DeriveStatus(n, now, s.windows),
			})
		}
		return nil
	})
	if err != nil {
		return nil, gameerr.Classify(fmt.Sprintf("looking for character %d", characterID), err)
	}
	return v, nil
}
