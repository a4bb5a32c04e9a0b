package character

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Starting vitals for a new character.
const (
	StartLevel      = 1
	StartExperience = 1
	StartHitPoints  = 10
	StartDefense    = 10
	StartStrength   = 10
	StartCharm      = 10
	StartGold       = 10
	StartWeaponID   = 1
	StartArmorID    = 1
)

// maxHandleLen matches the persistence column width.
const maxHandleLen = 50

// New constructs a character with default starting vitals placed on the given cell.
//
// Precondition: handle must be non-empty and at most 50 characters; gender must be M or F.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func New(handle string, gender Gender, worldMapID, cellID int64, now time.Time) (*Character, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("handle must not be empty")
	}
	if len(handle) > maxHandleLen {
		return nil, fmt.Errorf("handle must be at most %d characters", maxHandleLen)
	}
	if gender != Male && gender != Female {
		return nil, fmt.Errorf("gender must be %q or %q, got %q", Male, Female, gender)
	}
	if cellID <= 0 || worldMapID <= 0 {
		return nil, errors.New("starting location must be set")
	}
	return &Character{
		Handle:          handle,
		Gender:          gender,
		Level:           StartLevel,
		Experience:      StartExperience,
		HitPoints:       StartHitPoints,
		HitPointsMax:    StartHitPoints,
		Defense:         StartDefense,
		Strength:        StartStrength,
		Charm:           StartCharm,
		FightsLeft:      MaxFights,
		HumanFightsLeft: MaxHumanFights,
		WeaponID:        StartWeaponID,
		ArmorID:         StartArmorID,
		Gold:            StartGold,
		LastAliveTime:   now,
		WorldMapID:      worldMapID,
		CellID:          cellID,
		HereSince:       now,
	}, nil
}
