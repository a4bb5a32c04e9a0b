package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/world"
)

// Cell IDs of the fixture grid returned by NewWorld. The layout is
//
//	. . ^
//	. S .
//	.
//
// where ^ is impassable mountain and S is a safe town square.
const (
	CellNW       int64 = 1
	CellN        int64 = 2
	CellMountain int64 = 3
	CellW        int64 = 4
	CellSquare   int64 = 5
	CellE        int64 = 6
	CellSW       int64 = 7
)

// Catalog IDs seeded by NewCatalog.
const (
	WeaponFists     int64 = 1
	WeaponLongSword int64 = 2
	ArmorRags       int64 = 1
	ArmorChainMail  int64 = 2
)

const catalogYAML = `
weapons:
  - {id: 1, name: Fists, price: 0, strength: 0}
  - {id: 2, name: Long Sword, price: 500, strength: 20}
armor:
  - {id: 1, name: Rags, price: 0, defense: 0}
  - {id: 2, name: Chain Mail, price: 400, defense: 5}
terrain:
  - {id: 1, name: Grass, glyph: ".", passable: true}
  - {id: 2, name: Mountains, glyph: "^", passable: false}
monsters:
  - {id: 1, name: Rabid Rat, level: 1, strength: 2, gold: 3, weapon: teeth, experience: 2, hit_points: 4, death: The rat squeaks its last.}
`

const gridYAML = `
map:
  id: 1
  name: Fixture
  level_min: 1
  width: 3
  height: 3
  start: {x: 1, y: 1}
  first_cell_id: 1
  legend:
    ".": {terrain: 1, battle_odds: 10}
    "S": {terrain: 1, safe: true}
    "^": {terrain: 2}
  rows:
    - "..^"
    - ".S."
    - "."
`

// NewCatalog returns a registry holding the fixture weapons, armor, terrain and monster.
func NewCatalog(t testing.TB) *catalog.Registry {
	t.Helper()
	r := catalog.NewRegistry()
	require.NoError(t, catalog.LoadFromBytes(r, []byte(catalogYAML)))
	return r
}

// NewWorld returns a Manager over the fixture grid and the catalog it uses.
func NewWorld(t testing.TB) (*world.Manager, *catalog.Registry) {
	t.Helper()
	reg := NewCatalog(t)
	g, err := world.LoadGridFromBytes([]byte(gridYAML))
	require.NoError(t, err)
	m, err := world.NewManager([]*world.Grid{g}, reg)
	require.NoError(t, err)
	return m, reg
}
