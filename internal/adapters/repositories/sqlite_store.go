package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"delivery-route-optimizer/internal/ports"
)

// OpenSQLite opens (creating if needed) the embedded store at path and
// applies the schema. Foreign keys stay off; the two tables are independent.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// The driver serializes access per connection; a single connection avoids
	// SQLITE_BUSY under concurrent planning requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables this service owns. Statements are
// idempotent so startup can always run them.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stops (
			id           TEXT PRIMARY KEY,
			zone         TEXT NOT NULL,
			address      TEXT NOT NULL,
			lon          REAL NOT NULL,
			lat          REAL NOT NULL,
			parcel_count INTEGER NOT NULL CHECK (parcel_count > 0),
			position     INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS distance_cache (
			origin          TEXT NOT NULL,
			destination     TEXT NOT NULL,
			distance_meters REAL NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedStops fills an empty stops table from the ingestion source. A non-empty
// table is left untouched so operator edits survive restarts.
func SeedStops(ctx context.Context, db *sql.DB, src ports.StopSource) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stops;`).Scan(&count); err != nil {
		return fmt.Errorf("seed stops: count: %w", err)
	}
	if count > 0 {
		log.Printf("op=seed stops table already has %d rows, skipping", count)
		return nil
	}

	stops, err := src.LoadStops(ctx)
	if err != nil {
		return fmt.Errorf("seed stops: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stops: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stops (id, zone, address, lon, lat, parcel_count, position)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed stops: prepare: %w", err)
	}
	defer stmt.Close()

	for i, s := range stops {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Zone, s.Address, s.Coord.Lon, s.Coord.Lat, s.ParcelCount, i); err != nil {
			return fmt.Errorf("seed stops: insert %q: %w", s.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stops: commit: %w", err)
	}

	log.Printf("op=seed inserted %d stops", len(stops))
	return nil
}
