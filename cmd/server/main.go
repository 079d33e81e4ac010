package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"delivery-route-optimizer/internal/adapters/cache"
	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/adapters/export"
	"delivery-route-optimizer/internal/adapters/ingest"
	"delivery-route-optimizer/internal/adapters/repositories"
	"delivery-route-optimizer/internal/adapters/solver"
	"delivery-route-optimizer/internal/api"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/platform/db"
	"delivery-route-optimizer/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, ORS) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	ctx := context.Background()

	// DATABASE_URL switches the whole store to the shared Postgres database
	// that dbtool provisions: stops are read from it and, unless Redis takes
	// over, distances are cached in it. Without it the embedded SQLite store
	// serves both, seeded on startup for local runs.
	var repo ports.StopRepository
	var store, pg *sql.DB

	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		pg, err = db.Open(url)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		if err := repositories.EnsurePostgresSchema(ctx, pg); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewPostgresStopRepository(pg)
		log.Println("stop repository backend=postgres")
	} else {
		store, err = repositories.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		if err := repositories.SeedStops(ctx, store, stopSource(cfg)); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSqliteStopRepository(store)
		log.Println("stop repository backend=sqlite")
	}

	var distanceCache ports.DistanceCache
	switch {
	case cfg.RedisEnabled:
		rc, err := cache.NewRedisDistanceCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			log.Fatal(err)
		}
		defer rc.Close()
		distanceCache = rc
		log.Printf("distance cache backend=redis addr=%s", cfg.RedisAddr)
	case pg != nil:
		distanceCache = cache.NewSQLDistanceCache(pg)
		log.Println("distance cache backend=postgres")
	default:
		distanceCache = cache.NewSqliteDistanceCache(store)
		log.Println("distance cache backend=sqlite")
	}

	provider, err := distance.NewORSDistanceProvider(cfg, distanceCache)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(cfg, repo, provider, solver.New(), export.NewXLSXRouteExporter())

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// stopSource picks the ingestion format from the seed file extension.
func stopSource(cfg *config.Config) ports.StopSource {
	if strings.HasSuffix(strings.ToLower(cfg.SeedPath), ".xlsx") {
		return ingest.NewXLSXStopSource(cfg, cfg.SeedPath)
	}
	return ingest.NewCSVStopSource(cfg, cfg.SeedPath)
}
