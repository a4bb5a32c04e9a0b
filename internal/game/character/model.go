// Package character defines the player character model, pure creation logic,
// status derivation, and the daily reset.
package character

import "time"

// Default turn resource maxima.
const (
	MaxFights      = 10
	MaxHumanFights = 10
)

// Limits are the turn resource maxima restored by Reset.
type Limits struct {
	Fights      int
	HumanFights int
}

// DefaultLimits uses MaxFights and MaxHumanFights.
var DefaultLimits = Limits{Fights: MaxFights, HumanFights: MaxHumanFights}

// Gender drives the pronouns used in combat narration.
type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// Character represents a player character's persistent state.
//
// ID is set by the persistence layer; zero indicates an unsaved character.
//
// Invariant: HitPoints <= HitPointsMax; Dead is true whenever HitPoints <= 0.
type Character struct {
	ID     int64
	Handle string
	Gender Gender

	// Experience
	Level       int
	Experience  int64
	PlayerKills int

	// Vitals
	Dead         bool
	Inn          bool // sleeping at the inn
	HitPoints    int
	HitPointsMax int
	Defense      int
	Strength     int
	Charm        int

	// Turn resources
	FightsLeft      int
	HumanFightsLeft int
	SeenBard        bool
	SeenDragon      bool
	SeenMaster      bool
	SeenViolet      bool
	WeirdEvent      bool
	DoneSpecial     bool
	Flirted         bool

	// Inventory: catalog references, never owned.
	WeaponID int64
	ArmorID  int64
	Gold     int
	Gem      int

	// Life
	LastAliveTime time.Time
	LastDeadTime  time.Time // zero until the first death

	// Location
	WorldMapID int64
	CellID     int64
	HereSince  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pronoun returns "He" or "She".
func (c *Character) Pronoun() string {
	if c.Gender == Male {
		return "He"
	}
	return "She"
}

// Possessive returns "his" or "her".
func (c *Character) Possessive() string {
	if c.Gender == Male {
		return "his"
	}
	return "her"
}

// Objective returns "him" or "her".
func (c *Character) Objective() string {
	if c.Gender == Male {
		return "him"
	}
	return "her"
}

// Gauge is a display severity label paired with a percentage.
type Gauge struct {
	Level   string
	Percent int
}

// HPStatus grades remaining hit points: danger below 20%, warning below 50%.
//
// Precondition: HitPointsMax > 0.
func (c *Character) HPStatus() Gauge {
	pct := percent(c.HitPoints, c.HitPointsMax)
	switch {
	case pct < 20:
		return Gauge{Level: "danger", Percent: pct}
	case pct < 50:
		return Gauge{Level: "warning", Percent: pct}
	default:
		return Gauge{Level: "success", Percent: pct}
	}
}

// FightStatus reports remaining forest fights as a share of l.Fights.
func (c *Character) FightStatus(l Limits) Gauge {
	return Gauge{Level: "info", Percent: percent(c.FightsLeft, l.Fights)}
}

// HumanFightStatus reports remaining player fights as a share of l.HumanFights.
func (c *Character) HumanFightStatus(l Limits) Gauge {
	return Gauge{Level: "info", Percent: percent(c.HumanFightsLeft, l.HumanFights)}
}

func percent(n, max int) int {
	if max <= 0 {
		return 0
	}
	return n * 100 / max
}

// Reset starts a new turn cycle: hit points and fight counters return to their
// maxima, every one-time flag clears, and the character is alive again. Gold,
// gems and experience are untouched.
//
// Postcondition: HitPoints == HitPointsMax; FightsLeft == l.Fights;
// HumanFightsLeft == l.HumanFights; Dead is false; all Seen*/event flags are false.
func (c *Character) Reset(now time.Time, l Limits) {
	c.Dead = false
	c.HitPoints = c.HitPointsMax
	c.FightsLeft = l.Fights
	c.HumanFightsLeft = l.HumanFights
	c.SeenBard = false
	c.SeenDragon = false
	c.SeenMaster = false
	c.SeenViolet = false
	c.WeirdEvent = false
	c.DoneSpecial = false
	c.Flirted = false
	c.LastAliveTime = now
}

// TakeDamage subtracts amount from HitPoints and marks the character dead at or below zero.
//
// Precondition: amount >= 0.
// Postcondition: Returns true iff this call killed the character.
func (c *Character) TakeDamage(amount int, now time.Time) bool {
	c.HitPoints -= amount
	if c.HitPoints <= 0 && !c.Dead {
		c.Dead = true
		c.LastDeadTime = now
		return true
	}
	return false
}
