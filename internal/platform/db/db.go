package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Pool settings sized for a planner host: one matrix prefetch plus a handful
// of cache writes in flight at a time.
const (
	maxOpenConns    = 10
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
)

// Open connects to the shared Postgres database behind DATABASE_URL, used by
// deployments where several planner hosts read one stop set and distance
// cache. The pgx stdlib driver must be registered by the caller's import.
func Open(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("open postgres: verify connection: %w", err)
	}

	return pool, nil
}
