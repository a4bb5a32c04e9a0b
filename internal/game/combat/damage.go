package combat

import (
	"time"

	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
)

// Strike is the outcome of one blow.
type Strike struct {
	// Damage is the hit points removed, never negative.
	Damage int
	// Killed is true when this blow killed the target.
	Killed bool
}

// Blocked reports whether the blow did no damage.
func (s Strike) Blocked() bool { return s.Damage == 0 }

// Damage resolves one blow and applies it to defender.
// Formula: half = (Strength + weapon)/2; damage = max(0, half + roll[0, half] - (Defense + armor)).
//
// Precondition: every argument must be non-nil.
// Postcondition: defender.HitPoints is reduced by Strike.Damage; if it drops to
// zero or below, defender.Dead is true and LastDeadTime is now.
func Damage(attacker, defender *character.Character, weapon *catalog.Weapon, armor *catalog.Armor, src dice.Source, now time.Time) Strike {
	half := (attacker.Strength + weapon.Strength) / 2
	if half < 0 {
		half = 0
	}
	roll := dice.Inclusive(src, half)
	dmg := max(0, half+roll-(defender.Defense+armor.Defense))
	return Strike{Damage: dmg, Killed: defender.TakeDamage(dmg, now)}
}
