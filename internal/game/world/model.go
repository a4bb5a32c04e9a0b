// Package world provides the game world model: rectangular grids of cells,
// compass directions, and neighbor lookup.
package world

import (
	"fmt"
	"strings"
)

// Direction is one of the four compass directions a character can step.
type Direction string

// Compass directions.
const (
	North Direction = "N"
	South Direction = "S"
	East  Direction = "E"
	West  Direction = "W"
)

// Directions lists the movement directions in display order.
var Directions = []Direction{North, South, West, East}

// ParseDirection accepts "n", "north", "N", ... and returns the Direction.
//
// Postcondition: Returns (dir, true) for a recognised direction, ("", false) otherwise.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "s", "south":
		return South, true
	case "e", "east":
		return East, true
	case "w", "west":
		return West, true
	default:
		return "", false
	}
}

// Name returns the capitalised direction name used in narration, e.g. "North".
func (d Direction) Name() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return string(d)
	}
}

// Opposite returns the direction a mover arriving via d came from.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return ""
	}
}

// Delta returns the coordinate offset for one step in d. North decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Cell is one addressable square of a Grid.
type Cell struct {
	// ID uniquely identifies the cell across all grids.
	ID int64
	// GridID identifies the owning grid.
	GridID int64
	X      int
	Y      int
	// TerrainID references a catalog.Terrain.
	TerrainID int64
	// BattleOdds weights how likely a random encounter is here.
	BattleOdds int
	// Safe cells forbid player-vs-player combat.
	Safe bool
}

// String renders the cell as "<grid>/<x>/<y>".
func (c *Cell) String() string {
	return fmt.Sprintf("%d/%d/%d", c.GridID, c.X, c.Y)
}

type coord struct{ x, y int }

// Grid is a rectangular, sparsely populated world map. A Grid is immutable once built.
type Grid struct {
	ID       int64
	Name     string
	LevelMin int
	Width    int
	Height   int
	// StartCellID is where new characters are placed.
	StartCellID int64

	cells map[coord]*Cell
	byID  map[int64]*Cell
}

// NewGrid builds a Grid from its cells and validates grid invariants.
//
// Precondition: width, height >= 1; every cell lies within bounds with a unique
// coordinate and ID; startCellID names one of the cells.
// Postcondition: Returns a Grid owning the cells, or an error describing the first violation.
func NewGrid(id int64, name string, levelMin, width, height int, startCellID int64, cells []*Cell) (*Grid, error) {
	if id <= 0 {
		return nil, fmt.Errorf("grid id must be > 0, got %d", id)
	}
	if name == "" {
		return nil, fmt.Errorf("grid %d: name must not be empty", id)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("grid %d: size must be at least 1x1, got %dx%d", id, width, height)
	}
	g := &Grid{
		ID:          id,
		Name:        name,
		LevelMin:    levelMin,
		Width:       width,
		Height:      height,
		StartCellID: startCellID,
		cells:       make(map[coord]*Cell, len(cells)),
		byID:        make(map[int64]*Cell, len(cells)),
	}
	for _, c := range cells {
		if c.ID <= 0 {
			return nil, fmt.Errorf("grid %d: cell at (%d,%d) must have id > 0", id, c.X, c.Y)
		}
		if !g.InBounds(c.X, c.Y) {
			return nil, fmt.Errorf("grid %d: cell %d at (%d,%d) is outside %dx%d", id, c.ID, c.X, c.Y, width, height)
		}
		k := coord{c.X, c.Y}
		if _, dup := g.cells[k]; dup {
			return nil, fmt.Errorf("grid %d: duplicate cell at (%d,%d)", id, c.X, c.Y)
		}
		if _, dup := g.byID[c.ID]; dup {
			return nil, fmt.Errorf("grid %d: duplicate cell id %d", id, c.ID)
		}
		c.GridID = id
		g.cells[k] = c
		g.byID[c.ID] = c
	}
	if _, ok := g.byID[startCellID]; !ok {
		return nil, fmt.Errorf("grid %d: start cell %d not found", id, startCellID)
	}
	return g, nil
}

// InBounds reports whether (x, y) lies within the grid rectangle.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// CellAt returns the cell at (x, y).
//
// Postcondition: Returns (cell, true) if a cell exists there, or (nil, false) otherwise.
func (g *Grid) CellAt(x, y int) (*Cell, bool) {
	c, ok := g.cells[coord{x, y}]
	return c, ok
}

// Cell returns the grid's cell with the given ID.
func (g *Grid) Cell(id int64) (*Cell, bool) {
	c, ok := g.byID[id]
	return c, ok
}

// Start returns the starting cell.
func (g *Grid) Start() *Cell {
	return g.byID[g.StartCellID]
}

// Len returns the number of cells in the grid.
func (g *Grid) Len() int { return len(g.byID) }

// Neighbor returns the cell one step from c in dir.
func (g *Grid) Neighbor(c *Cell, dir Direction) (*Cell, bool) {
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return nil, false
	}
	return g.CellAt(c.X+dx, c.Y+dy)
}

// NeighborsOf maps each compass direction to the adjacent cell. Directions with
// no cell are omitted: absence means the way is closed, not an error.
func (g *Grid) NeighborsOf(c *Cell) map[Direction]*Cell {
	out := make(map[Direction]*Cell, 4)
	for _, d := range Directions {
		if n, ok := g.Neighbor(c, d); ok {
			out[d] = n
		}
	}
	return out
}

// SurroundingCells returns every existing cell with |dx| < 2 and |dy| < 2 of c,
// c included, row-major. Missing or out-of-bounds coordinates are skipped.
func (g *Grid) SurroundingCells(c *Cell) []*Cell {
	out := make([]*Cell, 0, 9)
	for y := c.Y - 1; y <= c.Y+1; y++ {
		for x := c.X - 1; x <= c.X+1; x++ {
			if n, ok := g.CellAt(x, y); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// Layout returns the full map as rows of cells; holes are nil.
//
// Postcondition: len(result) == Height and every row has length Width.
func (g *Grid) Layout() [][]*Cell {
	rows := make([][]*Cell, g.Height)
	for y := range rows {
		rows[y] = make([]*Cell, g.Width)
		for x := range rows[y] {
			rows[y][x] = g.cells[coord{x, y}]
		}
	}
	return rows
}
