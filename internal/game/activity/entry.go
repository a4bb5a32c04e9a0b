// Package activity models the per-character notification inbox: entry
// construction for combat and movement side effects, and the read/retention policy.
package activity

import (
	"fmt"
	"time"
)

// Category classifies an inbox entry.
type Category string

const (
	PvPAttacker Category = "pvp_attacker"
	PvPDefender Category = "pvp_defender"
	Event       Category = "event"
	Arrival     Category = "arrival"
	Departure   Category = "departure"
)

// Categories lists every valid category.
var Categories = []Category{PvPAttacker, PvPDefender, Event, Arrival, Departure}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Label returns the short description shown in inbox headers.
func (c Category) Label() string {
	switch c {
	case PvPAttacker:
		return "You attack"
	case PvPDefender:
		return "You were attacked"
	case Event:
		return "An event occurred"
	case Arrival:
		return "A player walked up."
	case Departure:
		return "A player left."
	default:
		return string(c)
	}
}

// Transient categories are dropped as soon as they have been seen.
func (c Category) Transient() bool {
	return c == Arrival || c == Departure
}

// Entry is one inbox notification. Entries are immutable except Viewed.
type Entry struct {
	ID        int64
	ToID      int64
	FromID    int64
	Category  Category
	Message   string
	Viewed    bool
	CreatedAt time.Time
}

// New builds an unsaved entry.
func New(to, from int64, cat Category, message string, now time.Time) Entry {
	return Entry{ToID: to, FromID: from, Category: cat, Message: message, CreatedAt: now}
}

// Validate checks entry invariants before persistence.
func (e Entry) Validate() error {
	if e.ToID <= 0 {
		return fmt.Errorf("activity entry: recipient must be set")
	}
	if !e.Category.Valid() {
		return fmt.Errorf("activity entry: invalid category %q", e.Category)
	}
	if e.Message == "" {
		return fmt.Errorf("activity entry: message must not be empty")
	}
	return nil
}
