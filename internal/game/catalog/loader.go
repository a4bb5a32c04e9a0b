package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files. A file may
// carry any subset of the sections.
type yamlCatalogFile struct {
	Weapons  []*Weapon  `yaml:"weapons"`
	Armor    []*Armor   `yaml:"armor"`
	Terrain  []*Terrain `yaml:"terrain"`
	Monsters []*Monster `yaml:"monsters"`
}

// LoadFromBytes parses catalog YAML and registers every definition into r.
//
// Postcondition: Returns nil if every entry parsed, validated and registered.
func LoadFromBytes(r *Registry, data []byte) error {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing catalog YAML: %w", err)
	}
	for _, w := range file.Weapons {
		if err := r.RegisterWeapon(w); err != nil {
			return err
		}
	}
	for _, a := range file.Armor {
		if err := r.RegisterArmor(a); err != nil {
			return err
		}
	}
	for _, t := range file.Terrain {
		if err := r.RegisterTerrain(t); err != nil {
			return err
		}
	}
	for _, m := range file.Monsters {
		if err := r.RegisterMonster(m); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromDir loads every .yaml/.yml file in dir into a new Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry or the first error encountered.
func LoadFromDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	r := NewRegistry()
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading catalog file %s: %w", name, err)
		}
		if err := LoadFromBytes(r, data); err != nil {
			return nil, fmt.Errorf("loading catalog from %s: %w", name, err)
		}
		loaded++
	}

	if loaded == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", dir)
	}
	return r, nil
}
