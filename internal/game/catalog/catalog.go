// Package catalog holds the immutable shared definitions (weapons, armor, terrain,
// monsters) that characters and map cells reference by ID.
//
// Definitions are loaded once and never mutated; lookups return the shared
// pointer and callers MUST NOT modify it.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a definition lookup yields no result.
var ErrNotFound = errors.New("catalog entry not found")

// Weapon is an equippable weapon contributing to attack strength.
type Weapon struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Price    int    `yaml:"price"`
	Strength int    `yaml:"strength"`
}

// Validate checks that the Weapon satisfies its invariants.
//
// Postcondition: returns nil iff ID > 0, Name is non-empty and Price, Strength >= 0.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID <= 0 {
		errs = append(errs, fmt.Errorf("weapon id must be > 0, got %d", w.ID))
	}
	if w.Name == "" {
		errs = append(errs, fmt.Errorf("weapon %d: name must not be empty", w.ID))
	}
	if w.Price < 0 {
		errs = append(errs, fmt.Errorf("weapon %d: price must be >= 0", w.ID))
	}
	if w.Strength < 0 {
		errs = append(errs, fmt.Errorf("weapon %d: strength must be >= 0", w.ID))
	}
	return errors.Join(errs...)
}

// Armor is an equippable armor piece contributing to defense.
type Armor struct {
	ID      int64  `yaml:"id"`
	Name    string `yaml:"name"`
	Price   int    `yaml:"price"`
	Defense int    `yaml:"defense"`
}

// Validate checks that the Armor satisfies its invariants.
//
// Postcondition: returns nil iff ID > 0, Name is non-empty and Price, Defense >= 0.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID <= 0 {
		errs = append(errs, fmt.Errorf("armor id must be > 0, got %d", a.ID))
	}
	if a.Name == "" {
		errs = append(errs, fmt.Errorf("armor %d: name must not be empty", a.ID))
	}
	if a.Price < 0 {
		errs = append(errs, fmt.Errorf("armor %d: price must be >= 0", a.ID))
	}
	if a.Defense < 0 {
		errs = append(errs, fmt.Errorf("armor %d: defense must be >= 0", a.ID))
	}
	return errors.Join(errs...)
}

// Terrain is a named cell type. Only Passable affects game rules; the rest is display.
type Terrain struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	FgColor  string `yaml:"fg_color"`
	BgColor  string `yaml:"bg_color"`
	Glyph    string `yaml:"glyph"`
	Turns    int    `yaml:"turns"`
	Passable bool   `yaml:"passable"`
}

// Validate checks that the Terrain satisfies its invariants.
func (t *Terrain) Validate() error {
	var errs []error
	if t.ID <= 0 {
		errs = append(errs, fmt.Errorf("terrain id must be > 0, got %d", t.ID))
	}
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("terrain %d: name must not be empty", t.ID))
	}
	if len([]rune(t.Glyph)) > 1 {
		errs = append(errs, fmt.Errorf("terrain %d: glyph must be a single character, got %q", t.ID, t.Glyph))
	}
	if t.Turns < 0 {
		errs = append(errs, fmt.Errorf("terrain %d: turns must be >= 0", t.ID))
	}
	return errors.Join(errs...)
}

// Monster is a forest creature definition. Monster fights are not resolved by
// this engine; definitions are served read-only to callers.
type Monster struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	Level      int    `yaml:"level"`
	Strength   int    `yaml:"strength"`
	Gold       int    `yaml:"gold"`
	Weapon     string `yaml:"weapon"`
	Experience int    `yaml:"experience"`
	HitPoints  int    `yaml:"hit_points"`
	Death      string `yaml:"death"`
}

// Validate checks that the Monster satisfies its invariants.
func (m *Monster) Validate() error {
	var errs []error
	if m.ID <= 0 {
		errs = append(errs, fmt.Errorf("monster id must be > 0, got %d", m.ID))
	}
	if m.Name == "" {
		errs = append(errs, fmt.Errorf("monster %d: name must not be empty", m.ID))
	}
	if m.Level < 1 {
		errs = append(errs, fmt.Errorf("monster %d: level must be >= 1", m.ID))
	}
	if m.HitPoints < 1 {
		errs = append(errs, fmt.Errorf("monster %d: hit_points must be >= 1", m.ID))
	}
	return errors.Join(errs...)
}
