package combat

import (
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
)

// Combatant pairs a character with the catalog gear it fights with.
type Combatant struct {
	*character.Character
	Weapon *catalog.Weapon
	Armor  *catalog.Armor
}

// Outcome is the resolved result of one fight.
type Outcome struct {
	// Attacker and Defender are the newline-terminated narratives for each side.
	Attacker string
	Defender string
	// Initiative is the drawn first-strike rule.
	Initiative Initiative
	// AttackerFirst reports who struck first after resolving Initiative.
	AttackerFirst bool
	// Strikes lists the blows in order; one or two entries.
	Strikes []Strike
	// Loser is the ID of the character killed, or zero.
	Loser int64
	// Loot is what the winner took, zero when nobody died.
	Loot Loot
}

// Fight resolves one opening blow and, if the target survives, one return blow.
// Both characters are mutated in place: hit points, death and settlement.
//
// Precondition: Rules.Check passed for the pair; src must be non-nil.
// Postcondition: At most one character died; if one did, Settle has been applied.
func Fight(attacker, defender Combatant, src dice.Source, now time.Time) Outcome {
	f := &fight{attacker: attacker, defender: defender, now: now}
	f.out.Initiative = RollInitiative(src)
	f.out.AttackerFirst = AttackerStrikesFirst(f.out.Initiative, attacker.Character, defender.Character)

	a, d := attacker.Handle, defender.Handle
	if f.out.AttackerFirst {
		f.say(
			fmt.Sprintf("You get the jump on %s and attack first!", d),
			fmt.Sprintf("%s attacks you out of nowhere!", a),
		)
		if !f.attackerStrikes(src, true) {
			f.defenderStrikes(src, false)
		}
	} else {
		f.say(
			fmt.Sprintf("%s gets the jump on you and attacks first!", d),
			fmt.Sprintf("%s tries to swing at you, but you beat %s to it and attack first.", a, attacker.Objective()),
		)
		if !f.defenderStrikes(src, true) {
			f.attackerStrikes(src, false)
		}
	}

	f.out.Attacker = f.atk.String()
	f.out.Defender = f.def.String()
	return f.out
}

type fight struct {
	attacker Combatant
	defender Combatant
	now      time.Time
	atk      strings.Builder
	def      strings.Builder
	out      Outcome
}

func (f *fight) say(toAttacker, toDefender string) {
	f.atk.WriteString(toAttacker)
	f.atk.WriteByte('\n')
	f.def.WriteString(toDefender)
	f.def.WriteByte('\n')
}

// attackerStrikes resolves the attacker's blow and reports whether it killed.
func (f *fight) attackerStrikes(src dice.Source, opening bool) bool {
	a, d := f.attacker, f.defender
	s := Damage(a.Character, d.Character, a.Weapon, d.Armor, src, f.now)
	f.out.Strikes = append(f.out.Strikes, s)
	switch {
	case s.Blocked():
		f.say(
			fmt.Sprintf("%s skillfully blocked your attack!", d.Handle),
			fmt.Sprintf("You skillfully block %s's attack!", a.Handle),
		)
	case s.Killed:
		loot := f.settle(a.Character, d.Character, true)
		toDefender := fmt.Sprintf("%s hits you with a deadly blow.  You fall to the ground and die as %s loots your lifeless body.", a.Handle, a.Handle)
		if !opening {
			toDefender = fmt.Sprintf("%s hits you with a deadly blow. You fall to the ground, spit out a bit of blood and let out one last breath.  %s loots your cold, lifeless body.", a.Handle, a.Handle)
		}
		f.say(
			fmt.Sprintf("You hit %s with a deadly blow.  %s falls to the ground, spits a bit of blood and lets out one last breath before dying. You loot %d gold coins and %d gems from the lifeless body.", d.Handle, d.Handle, loot.Gold, loot.Gem),
			toDefender,
		)
	default:
		f.say(
			fmt.Sprintf("You hit %s with your %s for %d damage.", d.Handle, a.Weapon.Name, s.Damage),
			fmt.Sprintf("%s hits you with %s %s for %d damage.", a.Handle, a.Possessive(), a.Weapon.Name, s.Damage),
		)
	}
	return s.Killed
}

// defenderStrikes resolves the defender's blow and reports whether it killed.
func (f *fight) defenderStrikes(src dice.Source, opening bool) bool {
	a, d := f.attacker, f.defender
	s := Damage(d.Character, a.Character, d.Weapon, a.Armor, src, f.now)
	f.out.Strikes = append(f.out.Strikes, s)
	switch {
	case s.Blocked():
		f.say(
			fmt.Sprintf("You skillfully block %s's attack.", d.Handle),
			fmt.Sprintf("%s skillfully blocks your attack.", a.Handle),
		)
	case s.Killed:
		loot := f.settle(d.Character, a.Character, false)
		if opening {
			f.say(
				fmt.Sprintf("%s attacks you with a deadly blow.  You die.", d.Handle),
				fmt.Sprintf("You deal a deadly blow to %s.  %s dies and you loot %s body.  You find %d gold and %d gems!", a.Handle, a.Pronoun(), a.Possessive(), loot.Gold, loot.Gem),
			)
		} else {
			f.say(
				fmt.Sprintf("%s attacks you with a deadly blow.  You die.  Your gold and gems have been taken.", d.Handle),
				fmt.Sprintf("You hit %s with a deadly blow.  %s dies and you loot %d gold and %d gems from %s lifeless body.", a.Handle, a.Pronoun(), loot.Gold, loot.Gem, a.Possessive()),
			)
		}
	default:
		f.say(
			fmt.Sprintf("%s hits you with the %s for %d damage.", d.Handle, d.Weapon.Name, s.Damage),
			fmt.Sprintf("You hit %s with your %s for %d damage.", a.Handle, d.Weapon.Name, s.Damage),
		)
	}
	return s.Killed
}

func (f *fight) settle(winner, loser *character.Character, attackerWon bool) Loot {
	loot := Settle(winner, loser, attackerWon)
	f.out.Loser = loser.ID
	f.out.Loot = loot
	return loot
}
