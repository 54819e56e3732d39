package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/guarzo/cardcomps/internal/model"
)

func ptr(v float64) *float64 { return &v }

func snapshotWithAvg(avg float64, n int) model.MarketSnapshot {
	return model.MarketSnapshot{AvgPrice: avg, SampleSize: n}
}

func TestCalculateBlendsBothSources(t *testing.T) {
	s, err := Calculate(snapshotWithAvg(20, 4), ptr(24), DefaultPercentages())
	if err != nil {
		t.Fatal(err)
	}

	if s.FinalAverage != 22 {
		t.Errorf("final average = %v, want 22 (equal-weight blend)", s.FinalAverage)
	}
	if s.BuyValue != 22 {
		t.Errorf("buy value = %v, want final average", s.BuyValue)
	}
	if math.Abs(s.TradeValue-17.6) > 1e-9 {
		t.Errorf("trade value = %v, want 17.6 (80%%)", s.TradeValue)
	}
	if math.Abs(s.CashValue-15.4) > 1e-9 {
		t.Errorf("cash value = %v, want 15.4 (70%%)", s.CashValue)
	}
}

func TestCalculateSalesOnly(t *testing.T) {
	s, err := Calculate(snapshotWithAvg(19.625, 4), nil, DefaultPercentages())
	if err != nil {
		t.Fatal(err)
	}
	if s.FinalAverage != 19.625 {
		t.Errorf("final average = %v, want the sale average", s.FinalAverage)
	}
}

func TestCalculateSecondaryOnly(t *testing.T) {
	s, err := Calculate(model.MarketSnapshot{}, ptr(31.5), DefaultPercentages())
	if err != nil {
		t.Fatal(err)
	}
	if s.FinalAverage != 31.5 {
		t.Errorf("final average = %v, want the secondary price", s.FinalAverage)
	}
}

func TestCalculateNoData(t *testing.T) {
	if _, err := Calculate(model.MarketSnapshot{}, nil, DefaultPercentages()); !errors.Is(err, model.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}

	// A zero secondary price is no price.
	if _, err := Calculate(model.MarketSnapshot{}, ptr(0), DefaultPercentages()); !errors.Is(err, model.ErrNoData) {
		t.Errorf("expected ErrNoData for zero secondary, got %v", err)
	}
}

func TestCalculateFeeRoundTrip(t *testing.T) {
	cfgs := []Percentages{
		{TradePercent: 80, CashPercent: 70, FeePercent: 12.5},
		{TradePercent: 85, CashPercent: 75, FeePercent: 9},
		{TradePercent: 80, CashPercent: 70, FeePercent: 0},
	}

	for _, cfg := range cfgs {
		s, err := Calculate(snapshotWithAvg(50, 3), nil, cfg)
		if err != nil {
			t.Fatal(err)
		}

		// Listing at ListingPriceForMarket must net FinalAverage after fees.
		net := s.ListingPriceForMarket * (1 - cfg.FeePercent/100)
		if math.Abs(net-s.FinalAverage) > 0.01 {
			t.Errorf("fee %v: round trip nets %v, want %v", cfg.FeePercent, net, s.FinalAverage)
		}

		wantNet := s.FinalAverage * (1 - cfg.FeePercent/100)
		if math.Abs(s.NetProceedsAtMarket-wantNet) > 1e-9 {
			t.Errorf("fee %v: net proceeds = %v, want %v", cfg.FeePercent, s.NetProceedsAtMarket, wantNet)
		}
	}
}

func TestCalculateFullFee(t *testing.T) {
	// A fee of 100% nets nothing; no listing price can recover it.
	s, err := Calculate(snapshotWithAvg(50, 3), nil, Percentages{FeePercent: 100})
	if err != nil {
		t.Fatal(err)
	}
	if s.NetProceedsAtMarket != 0 {
		t.Errorf("net proceeds = %v, want 0", s.NetProceedsAtMarket)
	}
	if s.ListingPriceForMarket != 0 {
		t.Errorf("listing price = %v, want 0 (undefined)", s.ListingPriceForMarket)
	}
}
