// Package postgres persists characters and the activity inbox in PostgreSQL
// using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/doorgame/internal/config"
)

// ApplicationName tags every connection so operators can spot game sessions
// in pg_stat_activity.
const ApplicationName = "doorgame"

// Pool owns the pgx connection pool shared by every Store.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool builds a connection pool from cfg. Connections are opened lazily;
// call Health to confirm the database is reachable.
//
// Precondition: cfg must have passed config validation.
// Postcondition: Returns a Pool or a non-nil error; no query has been issued.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Health pings the database, giving up after timeout.
//
// Precondition: The pool must not be closed.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for NewStore.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
