package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlMapFile is the top-level YAML structure for map files.
type yamlMapFile struct {
	Map yamlMap `yaml:"map"`
}

// yamlMap is the YAML representation of a grid. Cells come from Rows (decoded
// through Legend, IDs assigned row-major from FirstCellID) and from Cells.
type yamlMap struct {
	ID          int64                 `yaml:"id"`
	Name        string                `yaml:"name"`
	LevelMin    int                   `yaml:"level_min"`
	Width       int                   `yaml:"width"`
	Height      int                   `yaml:"height"`
	Start       yamlCoord             `yaml:"start"`
	FirstCellID int64                 `yaml:"first_cell_id"`
	Legend      map[string]yamlSquare `yaml:"legend"`
	Rows        []string              `yaml:"rows"`
	Cells       []yamlCell            `yaml:"cells"`
}

type yamlCoord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// yamlSquare is the cell template a legend glyph expands to.
type yamlSquare struct {
	Terrain    int64 `yaml:"terrain"`
	BattleOdds int   `yaml:"battle_odds"`
	Safe       bool  `yaml:"safe"`
}

type yamlCell struct {
	ID         int64 `yaml:"id"`
	X          int   `yaml:"x"`
	Y          int   `yaml:"y"`
	Terrain    int64 `yaml:"terrain"`
	BattleOdds int   `yaml:"battle_odds"`
	Safe       bool  `yaml:"safe"`
}

// LoadGridFromFile reads and validates a single map YAML file.
//
// Precondition: path must point to a valid YAML map file.
// Postcondition: Returns a validated Grid or a non-nil error.
func LoadGridFromFile(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file %s: %w", path, err)
	}
	return LoadGridFromBytes(data)
}

// LoadGridFromBytes parses and validates a grid from YAML bytes.
//
// Postcondition: Returns a validated Grid or a non-nil error.
func LoadGridFromBytes(data []byte) (*Grid, error) {
	var file yamlMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing map YAML: %w", err)
	}
	g, err := convertYAMLMap(file.Map)
	if err != nil {
		return nil, fmt.Errorf("validating map: %w", err)
	}
	return g, nil
}

// LoadGridsFromDir loads all YAML files in a directory as grids.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated grids or the first error encountered.
func LoadGridsFromDir(dir string) ([]*Grid, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading map directory %s: %w", dir, err)
	}

	var grids []*Grid
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		g, err := LoadGridFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading map from %s: %w", name, err)
		}
		grids = append(grids, g)
	}

	if len(grids) == 0 {
		return nil, fmt.Errorf("no map files found in %s", dir)
	}
	return grids, nil
}

// convertYAMLMap expands rows and explicit cells into domain types.
func convertYAMLMap(ym yamlMap) (*Grid, error) {
	var cells []*Cell
	if len(ym.Rows) > 0 {
		if ym.FirstCellID <= 0 {
			return nil, fmt.Errorf("map %d: first_cell_id must be > 0 when rows are used", ym.ID)
		}
		if len(ym.Rows) > ym.Height {
			return nil, fmt.Errorf("map %d: %d rows exceed height %d", ym.ID, len(ym.Rows), ym.Height)
		}
	}
	for y, row := range ym.Rows {
		glyphs := []rune(row)
		if len(glyphs) > ym.Width {
			return nil, fmt.Errorf("map %d: row %d is wider than %d", ym.ID, y, ym.Width)
		}
		for x, g := range glyphs {
			if g == ' ' {
				continue
			}
			sq, ok := ym.Legend[string(g)]
			if !ok {
				return nil, fmt.Errorf("map %d: row %d uses glyph %q missing from legend", ym.ID, y, g)
			}
			cells = append(cells, &Cell{
				ID:         ym.FirstCellID + int64(y*ym.Width+x),
				X:          x,
				Y:          y,
				TerrainID:  sq.Terrain,
				BattleOdds: sq.BattleOdds,
				Safe:       sq.Safe,
			})
		}
	}
	for _, yc := range ym.Cells {
		cells = append(cells, &Cell{
			ID:         yc.ID,
			X:          yc.X,
			Y:          yc.Y,
			TerrainID:  yc.Terrain,
			BattleOdds: yc.BattleOdds,
			Safe:       yc.Safe,
		})
	}

	var startID int64
	for _, c := range cells {
		if c.X == ym.Start.X && c.Y == ym.Start.Y {
			startID = c.ID
			break
		}
	}
	if startID == 0 {
		return nil, fmt.Errorf("map %d: no cell at start (%d,%d)", ym.ID, ym.Start.X, ym.Start.Y)
	}
	return NewGrid(ym.ID, ym.Name, ym.LevelMin, ym.Width, ym.Height, startID, cells)
}
