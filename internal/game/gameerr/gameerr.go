// Package gameerr defines the error taxonomy shared by the movement and combat engines.
//
// Rule violations (InvalidAttack, InvalidMove, PlayerDead) carry a reason that is
// shown to the player verbatim. Storage errors wrap the collaborator failure and are
// always fatal to the operation that produced them.
package gameerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindInvalidAttack Kind = iota + 1
	KindInvalidMove
	KindPlayerDead
	KindStorage
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidAttack:
		return "invalid attack"
	case KindInvalidMove:
		return "invalid move"
	case KindPlayerDead:
		return "player dead"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a classified game error.
type Error struct {
	Kind Kind
	// Reason is the player-facing message.
	Reason string
	// Err is the underlying cause for KindStorage errors.
	Err error
}

// Error returns the player-facing reason, or the kind and cause for storage errors.
func (e *Error) Error() string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
//
// Postcondition: errors.Is(err, ErrInvalidAttack) is true for every InvalidAttack error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Reason == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidAttack = &Error{Kind: KindInvalidAttack}
	ErrInvalidMove   = &Error{Kind: KindInvalidMove}
	ErrPlayerDead    = &Error{Kind: KindPlayerDead}
	ErrStorage       = &Error{Kind: KindStorage}
)

// InvalidAttack builds a KindInvalidAttack error with a formatted reason.
func InvalidAttack(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidAttack, Reason: fmt.Sprintf(format, args...)}
}

// InvalidMove builds a KindInvalidMove error with a formatted reason.
func InvalidMove(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidMove, Reason: fmt.Sprintf(format, args...)}
}

// PlayerDead builds a KindPlayerDead error with a formatted reason.
func PlayerDead(format string, args ...any) *Error {
	return &Error{Kind: KindPlayerDead, Reason: fmt.Sprintf(format, args...)}
}

// Storage wraps err as a KindStorage error describing op.
//
// Postcondition: errors.Is(result, err) holds.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Err: fmt.Errorf("%s: %w", op, err)}
}

// Classify returns err unchanged if it is already a game error, or wraps it as a
// storage error for op. A nil err stays nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return err
	}
	return Storage(op, err)
}

// IsRuleViolation reports whether err is a player-facing rule violation.
func IsRuleViolation(err error) bool {
	var ge *Error
	if !errors.As(err, &ge) {
		return false
	}
	return ge.Kind != KindStorage
}
