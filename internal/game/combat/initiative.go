package combat

import (
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
)

// Initiative is the drawn rule for who strikes first.
type Initiative int

const (
	// AttackerFirst gives the opening blow to the attacker.
	AttackerFirst Initiative = iota
	// DefenderFirst gives the opening blow to the defender.
	DefenderFirst
	// Skill gives the opening blow to the strictly stronger attacker, else the defender.
	Skill
)

// String returns a log-friendly name.
func (i Initiative) String() string {
	switch i {
	case AttackerFirst:
		return "attacker"
	case DefenderFirst:
		return "defender"
	case Skill:
		return "skill"
	default:
		return "unknown"
	}
}

// initiativeTable is sampled uniformly; Skill appears twice so it wins half the draws.
var initiativeTable = [...]Initiative{AttackerFirst, DefenderFirst, Skill, Skill}

// RollInitiative draws one entry of {attacker, defender, skill, skill}.
//
// Precondition: src must be non-nil.
func RollInitiative(src dice.Source) Initiative {
	return initiativeTable[src.Intn(len(initiativeTable))]
}

// AttackerStrikesFirst resolves i for the given pair.
//
// Postcondition: For Skill, returns true iff attacker.Strength > defender.Strength.
func AttackerStrikesFirst(i Initiative, attacker, defender *character.Character) bool {
	switch i {
	case AttackerFirst:
		return true
	case Skill:
		return attacker.Strength > defender.Strength
	default:
		return false
	}
}
