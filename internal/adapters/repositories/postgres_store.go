package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/ports"
)

// Postgres variants of the embedded store, for deployments where several
// planner hosts share one database. Table shapes match the SQLite schema.

func EnsurePostgresSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stops (
			id           TEXT PRIMARY KEY,
			zone         TEXT NOT NULL,
			address      TEXT NOT NULL,
			lon          DOUBLE PRECISION NOT NULL,
			lat          DOUBLE PRECISION NOT NULL,
			parcel_count INTEGER NOT NULL CHECK (parcel_count > 0),
			position     INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS distance_cache (
			origin          TEXT NOT NULL,
			destination     TEXT NOT NULL,
			distance_meters DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure postgres schema: %w", err)
		}
	}
	return nil
}

func SeedPostgresStops(ctx context.Context, db *sql.DB, src ports.StopSource) error {
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
	VALUES ($1, $2, $3, $4, $5, $6, $7);
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

// Postgres backed repository for delivery stops.
type PostgresStopRepository struct {
	DB *sql.DB
}

func NewPostgresStopRepository(db *sql.DB) *PostgresStopRepository {
	return &PostgresStopRepository{DB: db}
}

func (r *PostgresStopRepository) ListStops(ctx context.Context) ([]domain.Stop, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT id, zone, address, lon, lat, parcel_count
	FROM stops
	ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	var stops []domain.Stop
	for rows.Next() {
		var s domain.Stop
		if err := rows.Scan(&s.ID, &s.Zone, &s.Address, &s.Coord.Lon, &s.Coord.Lat, &s.ParcelCount); err != nil {
			return nil, fmt.Errorf("list stops: scan rows: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}
