package character

import "time"

// Status is the derived presence/life state of a character.
type Status string

const (
	StatusDead     Status = "Dead"
	StatusSleeping Status = "Sleeping at Inn"
	StatusOffline  Status = "Offline"
	StatusIdle     Status = "Idle"
	StatusActive   Status = "Active"
)

// Windows are the presence thresholds measured back from now.
type Windows struct {
	// Active is how long since arrival a character still counts as present.
	Active time.Duration
	// Idle is the age after which a present character is idle.
	Idle time.Duration
}

// DefaultWindows is ten minutes active, idle after five.
var DefaultWindows = Windows{Active: 10 * time.Minute, Idle: 5 * time.Minute}

// DeriveStatus evaluates, first match wins: dead, sleeping at the inn,
// HereSince older than w.Active (offline), older than w.Idle (idle), else active.
//
// Postcondition: Returns exactly one of the five Status constants.
func DeriveStatus(c *Character, now time.Time, w Windows) Status {
	switch {
	case c.Dead:
		return StatusDead
	case c.Inn:
		return StatusSleeping
	case c.HereSince.Before(now.Add(-w.Active)):
		return StatusOffline
	case c.HereSince.Before(now.Add(-w.Idle)):
		return StatusIdle
	default:
		return StatusActive
	}
}

// Status is DeriveStatus with DefaultWindows.
func (c *Character) Status(now time.Time) Status {
	return DeriveStatus(c, now, DefaultWindows)
}
