package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the planner recognizes. Values are loaded once
// from the environment in the composition root and passed into services
// explicitly; nothing reads the environment after startup.
type Config struct {
	// Hub is the fixed origin/destination of the vehicle (lon, lat).
	HubLon float64
	HubLat float64

	AvgSpeedKmh        float64
	ServiceTimeMinutes float64

	// Bounds accepted for every stop coordinate. Applied at the ingestion
	// boundary and again as the distance provider precondition.
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64

	// MaxMatrixBatch caps the side length of a single ORS matrix request.
	// Larger point sets are decomposed into block-diagonal sub-requests.
	MaxMatrixBatch int

	EarthRadiusKm float64

	// DayStart is the local time of day the vehicle leaves the hub ("15:04").
	DayStart string

	ORSBaseURL string
	ORSAPIKey  string
	ORSProfile string

	DBPath   string
	SeedPath string
	Port     string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// Load reads configuration from the environment, applying defaults tuned for
// the Davao City delivery area the seed data covers.
func Load() (*Config, error) {
	cfg := &Config{
		HubLon: getFloatEnv("HUB_LON", 125.6117),
		HubLat: getFloatEnv("HUB_LAT", 7.0854),

		AvgSpeedKmh:        getFloatEnv("AVG_SPEED_KMH", 30),
		ServiceTimeMinutes: getFloatEnv("SERVICE_TIME_MINUTES", 6),

		MinLon: getFloatEnv("BOUNDS_MIN_LON", 125.0),
		MaxLon: getFloatEnv("BOUNDS_MAX_LON", 126.0),
		MinLat: getFloatEnv("BOUNDS_MIN_LAT", 6.5),
		MaxLat: getFloatEnv("BOUNDS_MAX_LAT", 7.5),

		MaxMatrixBatch: getIntEnv("MAX_MATRIX_BATCH", 45),
		EarthRadiusKm:  getFloatEnv("EARTH_RADIUS_KM", 6371),
		DayStart:       Get("DAY_START", "08:00"),

		ORSBaseURL: Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSAPIKey:  os.Getenv("ORS_API_KEY"),
		ORSProfile: Get("ORS_PROFILE", "driving-car"),

		DBPath:   Get("DB_PATH", "data/app.db"),
		SeedPath: Get("SEED_PATH", "data/seeds/stops.csv"),
		Port:     Get("PORT", "8080"),

		RedisEnabled:  getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: Get("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		CacheTTL:      getDurationEnv("CACHE_TTL", 24*time.Hour),
	}

	if cfg.AvgSpeedKmh <= 0 {
		return nil, fmt.Errorf("config: AVG_SPEED_KMH must be positive, got %v", cfg.AvgSpeedKmh)
	}
	if cfg.ServiceTimeMinutes < 0 {
		return nil, fmt.Errorf("config: SERVICE_TIME_MINUTES must not be negative, got %v", cfg.ServiceTimeMinutes)
	}
	if cfg.MaxMatrixBatch < 2 {
		return nil, fmt.Errorf("config: MAX_MATRIX_BATCH must be at least 2, got %d", cfg.MaxMatrixBatch)
	}
	if cfg.MinLon >= cfg.MaxLon || cfg.MinLat >= cfg.MaxLat {
		return nil, fmt.Errorf(
			"config: invalid bounding box lon=[%v,%v] lat=[%v,%v]",
			cfg.MinLon, cfg.MaxLon, cfg.MinLat, cfg.MaxLat,
		)
	}
	if _, err := time.Parse("15:04", cfg.DayStart); err != nil {
		return nil, fmt.Errorf("config: DAY_START must be HH:MM, got %q", cfg.DayStart)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
