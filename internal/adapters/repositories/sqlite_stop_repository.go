package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-route-optimizer/internal/domain"
)

// SQLite backed repository for delivery stops. Rows are returned in the
// position they were ingested, which the planner treats as the canonical
// input order for tie-breaking.
type SqliteStopRepository struct {
	DB *sql.DB
}

func NewSqliteStopRepository(db *sql.DB) *SqliteStopRepository {
	return &SqliteStopRepository{DB: db}
}

func (r *SqliteStopRepository) ListStops(ctx context.Context) ([]domain.Stop, error) {
	if r.DB == nil {
		return nil, errors.New("stop repository: db is nil")
	}

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
