package world

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/doorgame/internal/game/catalog"
)

// Manager provides read-only access to all loaded grids. It indexes cells across
// grids for O(1) lookup by cell ID. Grids never change after construction, so no
// locking is needed.
type Manager struct {
	grids     map[int64]*Grid
	cells     map[int64]*Cell
	terrain   *catalog.Registry
	startGrid int64
}

// NewManager creates a Manager from the given grids.
//
// Precondition: grids must contain at least one grid; the lowest-LevelMin grid
// (ties broken by ID) is the default grid for new characters.
// Postcondition: Returns a Manager with every cell indexed, or an error on
// duplicate grid/cell IDs or cells referencing unknown terrain.
func NewManager(grids []*Grid, terrain *catalog.Registry) (*Manager, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("world: at least one grid is required")
	}
	m := &Manager{
		grids:   make(map[int64]*Grid, len(grids)),
		cells:   make(map[int64]*Cell),
		terrain: terrain,
	}

	sorted := make([]*Grid, len(grids))
	copy(sorted, grids)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].LevelMin != sorted[j].LevelMin {
			return sorted[i].LevelMin < sorted[j].LevelMin
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, g := range sorted {
		if _, exists := m.grids[g.ID]; exists {
			return nil, fmt.Errorf("duplicate grid ID: %d", g.ID)
		}
		m.grids[g.ID] = g
		for id, c := range g.byID {
			if existing, exists := m.cells[id]; exists {
				return nil, fmt.Errorf("duplicate cell ID %d: in grid %d and %d", id, existing.GridID, g.ID)
			}
			if _, ok := terrain.Terrain(c.TerrainID); !ok {
				return nil, fmt.Errorf("grid %d: cell %d references unknown terrain %d", g.ID, id, c.TerrainID)
			}
			m.cells[id] = c
		}
	}
	m.startGrid = sorted[0].ID
	return m, nil
}

// Grid returns the grid with the given ID.
func (m *Manager) Grid(id int64) (*Grid, bool) {
	g, ok := m.grids[id]
	return g, ok
}

// Cell returns the cell with the given ID from any grid.
//
// Postcondition: Returns (cell, true) if found, or (nil, false) otherwise.
func (m *Manager) Cell(id int64) (*Cell, bool) {
	c, ok := m.cells[id]
	return c, ok
}

// DefaultGrid returns the grid new characters start on.
func (m *Manager) DefaultGrid() *Grid {
	return m.grids[m.startGrid]
}

// Terrain returns the terrain definition of c.
func (m *Manager) Terrain(c *Cell) (*catalog.Terrain, bool) {
	return m.terrain.Terrain(c.TerrainID)
}

// IsPassable reports whether characters may enter c. Cells whose terrain is
// missing from the catalog are impassable.
func (m *Manager) IsPassable(c *Cell) bool {
	t, ok := m.terrain.Terrain(c.TerrainID)
	return ok && t.Passable
}

// Neighbor returns the cell one step from c in dir within c's grid.
func (m *Manager) Neighbor(c *Cell, dir Direction) (*Cell, bool) {
	g, ok := m.grids[c.GridID]
	if !ok {
		return nil, false
	}
	return g.Neighbor(c, dir)
}

// PossibleMoves returns the neighbor map of c. Impassable neighbors are
// included; callers decide how to render them.
func (m *Manager) PossibleMoves(c *Cell) map[Direction]*Cell {
	g, ok := m.grids[c.GridID]
	if !ok {
		return map[Direction]*Cell{}
	}
	return g.NeighborsOf(c)
}

// SurroundingCells returns the 3x3 neighborhood of c within its grid.
func (m *Manager) SurroundingCells(c *Cell) []*Cell {
	g, ok := m.grids[c.GridID]
	if !ok {
		return nil
	}
	return g.SurroundingCells(c)
}

// GridCount returns the number of loaded grids.
func (m *Manager) GridCount() int { return len(m.grids) }

// CellCount returns the total number of cells across all grids.
func (m *Manager) CellCount() int { return len(m.cells) }
