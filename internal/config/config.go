// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/guarzo/cardcomps/internal/strategy"
)

// Config holds every tunable the analyzer reads from the environment.
type Config struct {
	// PokemonTCGAPIKey raises the catalog API rate limit. Optional.
	PokemonTCGAPIKey string

	// Percentages drive the buy/trade/cash strategy numbers.
	Percentages strategy.Percentages

	// MaxListings caps how many sold listings one search fetches.
	MaxListings int

	// CachePath is the JSON file backing the API response cache.
	CachePath string
	// SnapshotPath is the JSON file of the latest watch-list snapshot.
	SnapshotPath string

	// RefreshSchedule is a cron expression for watch mode.
	RefreshSchedule string

	// RequestTimeout bounds each outbound HTTP request.
	RequestTimeout time.Duration
}

// Load reads configuration, checking .env first. Missing variables fall
// back to defaults; a missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		PokemonTCGAPIKey: getEnv("POKEMONTCG_API_KEY", ""),
		Percentages: strategy.Percentages{
			TradePercent: clampPercent(getEnvFloat("TRADE_PERCENT", 80)),
			CashPercent:  clampPercent(getEnvFloat("CASH_PERCENT", 70)),
			FeePercent:   clampPercent(getEnvFloat("FEE_PERCENT", 12.5)),
		},
		MaxListings:     getEnvInt("MAX_LISTINGS", 25),
		CachePath:       getEnv("CACHE_PATH", "data/cache.json"),
		SnapshotPath:    getEnv("SNAPSHOT_PATH", "data/snapshot.json"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 6h"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// clampPercent keeps a percentage inside [0, 100]; a trade percentage
// of 140 or a negative fee would produce nonsense pricing.
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
