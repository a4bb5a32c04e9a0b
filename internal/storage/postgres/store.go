package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/doorgame/internal/game/store"
)

// Store implements store.Store on a pgx pool. Each WithTx call runs in one
// read-committed transaction; character reads take row locks and wait at most
// lockTimeout for them.
type Store struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

// NewStore creates a Store backed by the given pool. A zero lockTimeout leaves
// the server's lock_timeout in effect.
//
// Precondition: db must be a valid, open connection pool.
func NewStore(db *pgxpool.Pool, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

// WithTx runs fn in a transaction that commits iff fn returns nil.
//
// Postcondition: fn's error is returned unchanged; commit and begin failures are wrapped.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	var fnErr error
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if s.lockTimeout > 0 {
			// SET LOCAL takes no bind parameters; set_config with is_local does the same.
			if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`,
				fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())); err != nil {
				return fmt.Errorf("setting lock timeout: %w", err)
			}
		}
		fnErr = fn(ctx, &txStore{tx: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("running transaction: %w", err)
	}
	return nil
}

var (
	_ store.Store = (*Store)(nil)
	_ store.Tx    = (*txStore)(nil)
)

// txStore implements store.Tx over one pgx transaction.
type txStore struct {
	tx pgx.Tx
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

// isLockTimeoutError reports SQLSTATE 55P03 (lock_not_available), raised when
// lock_timeout expires.
func isLockTimeoutError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "55P03"
	}
	return false
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// nullID maps a zero ID to SQL NULL.
func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
