package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"delivery-route-optimizer/internal/adapters/ingest"
	"delivery-route-optimizer/internal/adapters/repositories"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/platform/db"
)

// dbtool provisions the shared Postgres database: schema plus stop seed data.
// Run it once per environment before pointing planner hosts at DATABASE_URL.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	if err := initAndSeed(context.Background(), pg, cfg); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, pg *sql.DB, cfg *config.Config) error {
	log.Println("Initializing database schema...")
	if err := repositories.EnsurePostgresSchema(ctx, pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	src := ingest.NewCSVStopSource(cfg, cfg.SeedPath)
	if err := repositories.SeedPostgresStops(ctx, pg, src); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
