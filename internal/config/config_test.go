package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Percentages.TradePercent != 80 {
		t.Errorf("TradePercent = %v, want 80", cfg.Percentages.TradePercent)
	}
	if cfg.Percentages.CashPercent != 70 {
		t.Errorf("CashPercent = %v, want 70", cfg.Percentages.CashPercent)
	}
	if cfg.Percentages.FeePercent != 12.5 {
		t.Errorf("FeePercent = %v, want 12.5", cfg.Percentages.FeePercent)
	}
	if cfg.MaxListings != 25 {
		t.Errorf("MaxListings = %d, want 25", cfg.MaxListings)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TRADE_PERCENT", "75")
	t.Setenv("FEE_PERCENT", "10")
	t.Setenv("MAX_LISTINGS", "50")
	t.Setenv("POKEMONTCG_API_KEY", "abc123")
	t.Setenv("REQUEST_TIMEOUT", "30s")

	cfg := Load()
	if cfg.Percentages.TradePercent != 75 {
		t.Errorf("TradePercent = %v, want 75", cfg.Percentages.TradePercent)
	}
	if cfg.Percentages.FeePercent != 10 {
		t.Errorf("FeePercent = %v, want 10", cfg.Percentages.FeePercent)
	}
	if cfg.MaxListings != 50 {
		t.Errorf("MaxListings = %d, want 50", cfg.MaxListings)
	}
	if cfg.PokemonTCGAPIKey != "abc123" {
		t.Errorf("PokemonTCGAPIKey = %q", cfg.PokemonTCGAPIKey)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
}

func TestLoadClampsPercentages(t *testing.T) {
	t.Setenv("TRADE_PERCENT", "140")
	t.Setenv("CASH_PERCENT", "-5")

	cfg := Load()
	if cfg.Percentages.TradePercent != 100 {
		t.Errorf("TradePercent = %v, want clamp to 100", cfg.Percentages.TradePercent)
	}
	if cfg.Percentages.CashPercent != 0 {
		t.Errorf("CashPercent = %v, want clamp to 0", cfg.Percentages.CashPercent)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_LISTINGS", "lots")
	t.Setenv("FEE_PERCENT", "cheap")

	cfg := Load()
	if cfg.MaxListings != 25 {
		t.Errorf("MaxListings = %d, want fallback 25", cfg.MaxListings)
	}
	if cfg.Percentages.FeePercent != 12.5 {
		t.Errorf("FeePercent = %v, want fallback 12.5", cfg.Percentages.FeePercent)
	}
}
