package activity

import (
	"fmt"
	"time"
)

// Departures builds one departure notice per recipient ID.
//
// Postcondition: len(result) == len(to).
func Departures(to []int64, moverID int64, moverHandle, toDirection string, now time.Time) []Entry {
	msg := fmt.Sprintf("You see %s wander off to the %s.", moverHandle, toDirection)
	return broadcast(to, moverID, Departure, msg, now)
}

// Arrivals builds one arrival notice per recipient ID.
//
// Postcondition: len(result) == len(to).
func Arrivals(to []int64, moverID int64, moverHandle, fromDirection string, now time.Time) []Entry {
	msg := fmt.Sprintf("You see %s appear from the %s.", moverHandle, fromDirection)
	return broadcast(to, moverID, Arrival, msg, now)
}

func broadcast(to []int64, from int64, cat Category, msg string, now time.Time) []Entry {
	out := make([]Entry, 0, len(to))
	for _, id := range to {
		out = append(out, New(id, from, cat, msg, now))
	}
	return out
}
