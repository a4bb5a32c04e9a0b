package combat

import (
	"strings"
	"time"

	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/world"
)

// Rules are the tunable attack preconditions.
type Rules struct {
	// StrengthGap is the largest strength advantage either side may hold.
	StrengthGap int
	// LevelGap is the largest level advantage either side may hold.
	LevelGap int
	// Windows decide whether the defender is Active.
	Windows character.Windows
	// EnforceHumanFights rejects attackers with no human fights left.
	EnforceHumanFights bool
}

// DefaultRules allow at most 50 strength or 5 levels either way.
var DefaultRules = Rules{
	StrengthGap:        50,
	LevelGap:           5,
	Windows:            character.DefaultWindows,
	EnforceHumanFights: true,
}

// Check evaluates attack eligibility in order, returning the first violation.
// It never mutates either character.
//
// Precondition: here is the attacker's current cell.
// Postcondition: Returns nil, or a gameerr InvalidAttack/PlayerDead error.
func (r Rules) Check(attacker, defender *character.Character, here *world.Cell, now time.Time) error {
	if attacker.ID == defender.ID {
		return gameerr.InvalidAttack("You can't attack yourself.")
	}
	if here.Safe {
		return gameerr.InvalidAttack("This is a no-fight zone. You can only fight monsters here.")
	}
	if defender.CellID != attacker.CellID {
		return gameerr.InvalidAttack("%s seems to have slipped away before you had a chance to attack.", defender.Handle)
	}
	if attacker.Dead {
		return gameerr.PlayerDead("You are dead.  You cannot attack.")
	}
	if defender.Dead {
		return gameerr.InvalidAttack("%s is dead.  You can't attack a dead person!", defender.Handle)
	}
	if defender.WorldMapID != attacker.WorldMapID {
		return gameerr.InvalidAttack("That player has left the area.")
	}
	if status := character.DeriveStatus(defender, now, r.Windows); status != character.StatusActive {
		return gameerr.InvalidAttack("You can't attack someone who's %s!  That's just wrong.", strings.ToLower(string(status)))
	}
	if attacker.Strength-defender.Strength > r.StrengthGap || attacker.Level-defender.Level > r.LevelGap {
		return gameerr.InvalidAttack("You quickly realize that you would unfairly destroy %s in a match and walk away.", defender.Handle)
	}
	if defender.Strength-attacker.Strength > r.StrengthGap || defender.Level-attacker.Level > r.LevelGap {
		return gameerr.InvalidAttack("%s looks at you. %s scoffs and walks away.", defender.Handle, defender.Pronoun())
	}
	if r.EnforceHumanFights && attacker.HumanFightsLeft <= 0 {
		return gameerr.InvalidAttack("You have no human fights left today.")
	}
	return nil
}
