// Package strategy derives seller-facing values from a reconciled market
// average: what to pay, what to offer in trade or cash, and what to list
// at on a fee-charging marketplace.
package strategy

import (
	"github.com/guarzo/cardcomps/internal/model"
)

// Percentages is the user's pricing configuration. All three are whole
// percentages in [0, 100]; the config layer clamps before they reach here.
type Percentages struct {
	TradePercent float64
	CashPercent  float64
	FeePercent   float64
}

// DefaultPercentages mirrors the long-standing product defaults: pay 100%
// of market, trade at 80%, cash at 70%, with 12.5% marketplace fees.
func DefaultPercentages() Percentages {
	return Percentages{TradePercent: 80, CashPercent: 70, FeePercent: 12.5}
}

// Calculate derives the pricing strategy from the sale-based snapshot and
// an optional secondary reference price (catalog/market price from a
// non-sale source).
//
// When both a sale average and a secondary price exist they are blended
// with equal weight; with only one, that one is used alone. That equal
// weighting is deliberate compatibility behavior, not a statistical claim.
// With neither, Calculate returns model.ErrNoData; callers guard.
//
// All outputs carry full float precision. Rounding to two decimals is a
// presentation concern and happens in the report layer.
func Calculate(snapshot model.MarketSnapshot, secondaryPrice *float64, cfg Percentages) (model.PricingStrategy, error) {
	haveSales := snapshot.SampleSize > 0
	haveSecondary := secondaryPrice != nil && *secondaryPrice > 0

	var finalAverage float64
	switch {
	case haveSales && haveSecondary:
		finalAverage = (snapshot.AvgPrice + *secondaryPrice) / 2
	case haveSales:
		finalAverage = snapshot.AvgPrice
	case haveSecondary:
		finalAverage = *secondaryPrice
	default:
		return model.PricingStrategy{}, model.ErrNoData
	}

	s := model.PricingStrategy{
		FinalAverage: finalAverage,
		BuyValue:     finalAverage,
		TradeValue:   finalAverage * cfg.TradePercent / 100,
		CashValue:    finalAverage * cfg.CashPercent / 100,
	}

	feeKeep := 1 - cfg.FeePercent/100
	s.NetProceedsAtMarket = finalAverage * feeKeep
	if feeKeep > 0 {
		// List price that nets exactly finalAverage after the fee.
		s.ListingPriceForMarket = finalAverage / feeKeep
	}

	return s, nil
}
