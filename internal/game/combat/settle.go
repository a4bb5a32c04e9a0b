package combat

import "github.com/cory-johannsen/doorgame/internal/game/character"

// Loot is what a winner took from a loser.
type Loot struct {
	Gold       int
	Gem        int
	Experience int64
}

// Settle transfers the loser's gold and gems to the winner, credits the winner
// with the loser's experience and a kill, and empties the loser's purse. The
// loser keeps their experience. A human fight is charged to the winner only when
// the winner started the fight.
//
// Precondition: loser.Dead is true.
// Postcondition: loser.Gold == 0 and loser.Gem == 0; winner gained exactly the returned Loot.
func Settle(winner, loser *character.Character, attackerWon bool) Loot {
	loot := Loot{Gold: loser.Gold, Gem: loser.Gem, Experience: loser.Experience}
	winner.Gold += loot.Gold
	winner.Gem += loot.Gem
	winner.Experience += loot.Experience
	winner.PlayerKills++
	if attackerWon {
		winner.HumanFightsLeft--
	}
	loser.Gold = 0
	loser.Gem = 0
	return loot
}
