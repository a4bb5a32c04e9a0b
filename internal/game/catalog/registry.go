package catalog

import (
	"fmt"
	"sort"
)

// Registry indexes all loaded definitions by ID.
//
// A Registry is populated during startup and read-only afterwards; concurrent
// reads are safe once population is complete.
type Registry struct {
	weapons  map[int64]*Weapon
	armor    map[int64]*Armor
	terrain  map[int64]*Terrain
	monsters map[int64]*Monster
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:  make(map[int64]*Weapon),
		armor:    make(map[int64]*Armor),
		terrain:  make(map[int64]*Terrain),
		monsters: make(map[int64]*Monster),
	}
}

// RegisterWeapon validates and adds w.
//
// Postcondition: Weapon(w.ID) returns w; returns error if w is invalid or w.ID already registered.
func (r *Registry) RegisterWeapon(w *Weapon) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("catalog: weapon ID %d already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor validates and adds a.
func (r *Registry) RegisterArmor(a *Armor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := r.armor[a.ID]; exists {
		return fmt.Errorf("catalog: armor ID %d already registered", a.ID)
	}
	r.armor[a.ID] = a
	return nil
}

// RegisterTerrain validates and adds t.
func (r *Registry) RegisterTerrain(t *Terrain) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r.terrain[t.ID]; exists {
		return fmt.Errorf("catalog: terrain ID %d already registered", t.ID)
	}
	r.terrain[t.ID] = t
	return nil
}

// RegisterMonster validates and adds m.
func (r *Registry) RegisterMonster(m *Monster) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := r.monsters[m.ID]; exists {
		return fmt.Errorf("catalog: monster ID %d already registered", m.ID)
	}
	r.monsters[m.ID] = m
	return nil
}

// Weapon returns the weapon with the given ID.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Weapon(id int64) (*Weapon, bool) {
	w, ok := r.weapons[id]
	return w, ok
}

// Armor returns the armor with the given ID.
func (r *Registry) Armor(id int64) (*Armor, bool) {
	a, ok := r.armor[id]
	return a, ok
}

// Terrain returns the terrain with the given ID.
func (r *Registry) Terrain(id int64) (*Terrain, bool) {
	t, ok := r.terrain[id]
	return t, ok
}

// Monster returns the monster with the given ID.
func (r *Registry) Monster(id int64) (*Monster, bool) {
	m, ok := r.monsters[id]
	return m, ok
}

// LookupWeapon is Weapon with a wrapped ErrNotFound instead of a bool.
func (r *Registry) LookupWeapon(id int64) (*Weapon, error) {
	w, ok := r.weapons[id]
	if !ok {
		return nil, fmt.Errorf("weapon %d: %w", id, ErrNotFound)
	}
	return w, nil
}

// LookupArmor is Armor with a wrapped ErrNotFound instead of a bool.
func (r *Registry) LookupArmor(id int64) (*Armor, error) {
	a, ok := r.armor[id]
	if !ok {
		return nil, fmt.Errorf("armor %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// Weapons returns all weapons ordered by price, then ID.
func (r *Registry) Weapons() []*Weapon {
	out := make([]*Weapon, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ArmorPieces returns all armor ordered by price, then ID.
func (r *Registry) ArmorPieces() []*Armor {
	out := make([]*Armor, 0, len(r.armor))
	for _, a := range r.armor {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MonstersForLevel returns the monsters of exactly the given level ordered by ID.
func (r *Registry) MonstersForLevel(level int) []*Monster {
	var out []*Monster
	for _, m := range r.monsters {
		if m.Level == level {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns the number of weapons, armor, terrain and monster definitions.
func (r *Registry) Counts() (weapons, armor, terrain, monsters int) {
	return len(r.weapons), len(r.armor), len(r.terrain), len(r.monsters)
}
