// Package store defines the repository contract the game engines persist through.
//
// All reads and writes of one engine operation happen inside a single Tx so that
// either every mutation commits or none does.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrHandleTaken is returned when creating a character whose handle is already used.
var ErrHandleTaken = errors.New("character handle already taken")

// ErrLockTimeout is returned when a row lock could not be taken within the
// store's lock wait bound.
var ErrLockTimeout = errors.New("timed out waiting for row lock")

// Tx is a unit of work against durable storage.
type Tx interface {
	// Character loads the character with the given ID for update.
	//
	// Postcondition: Returns ErrCharacterNotFound when no such character exists.
	Character(ctx context.Context, id int64) (*character.Character, error)
	// PeekCharacter loads the character with the given ID without locking it.
	//
	// Postcondition: Returns ErrCharacterNotFound when no such character exists.
	PeekCharacter(ctx context.Context, id int64) (*character.Character, error)
	// CharactersAt returns characters in cellID whose HereSince is strictly after since.
	CharactersAt(ctx context.Context, cellID int64, since time.Time) ([]*character.Character, error)
	// CreateCharacter inserts c and returns it with ID set.
	//
	// Postcondition: Returns ErrHandleTaken on a duplicate handle.
	CreateCharacter(ctx context.Context, c *character.Character) (*character.Character, error)
	// SaveCharacter persists every mutable field of c.
	SaveCharacter(ctx context.Context, c *character.Character) error
	// CreateActivity bulk-inserts inbox entries.
	CreateActivity(ctx context.Context, entries []activity.Entry) error
	// Inbox returns the newest entries for toID, newest first.
	Inbox(ctx context.Context, toID int64, limit int) ([]activity.Entry, error)
	// PurgeViewed deletes viewed entries for toID older than cutoff, and viewed
	// arrival/departure entries regardless of age.
	PurgeViewed(ctx context.Context, toID int64, cutoff time.Time) error
	// MarkViewed flags every entry for toID as viewed.
	MarkViewed(ctx context.Context, toID int64) error
}

// Store begins transactions.
type Store interface {
	// WithTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; fn's error is returned unchanged.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
