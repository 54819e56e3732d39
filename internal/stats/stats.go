// Package stats computes the summary statistics behind a price
// recommendation: min/avg/max, index quartiles and a coefficient-of-
// variation volatility figure over a normalized record set.
package stats

import (
	"math"
	"sort"

	"github.com/guarzo/cardcomps/internal/model"
)

// Compute returns the market snapshot for records. The input must be
// non-empty; callers guard and receive model.ErrNoData otherwise.
//
// Quartiles are the elements at floor(n*0.25) and floor(n*0.75) of the
// price-sorted slice, with no interpolation. Volatility uses the population
// standard deviation. Both choices reproduce the behavior downstream
// consumers already depend on; see DESIGN.md before changing either.
func Compute(records []model.PriceRecord) (model.MarketSnapshot, error) {
	if len(records) == 0 {
		return model.MarketSnapshot{}, model.ErrNoData
	}

	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.Price
	}
	sort.Float64s(prices)

	n := len(prices)
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	mean := sum / float64(n)

	snapshot := model.MarketSnapshot{
		MinPrice:   prices[0],
		MaxPrice:   prices[n-1],
		AvgPrice:   mean,
		Q1:         prices[quantileIndex(n, 0.25)],
		Q3:         prices[quantileIndex(n, 0.75)],
		SampleSize: n,
	}

	if mean != 0 {
		snapshot.VolatilityPercent = populationStdDev(prices, mean) / mean * 100
	}

	return snapshot, nil
}

// VolatilityOf exposes the coefficient-of-variation percentage alone, for
// callers that track volatility without a full snapshot. Returns false when
// it is undefined (fewer than two prices, or a zero mean).
func VolatilityOf(prices []float64) (float64, bool) {
	if len(prices) < 2 {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	mean := sum / float64(len(prices))
	if mean == 0 {
		return 0, false
	}
	return populationStdDev(prices, mean) / mean * 100, true
}

func quantileIndex(n int, q float64) int {
	idx := int(math.Floor(float64(n) * q))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func populationStdDev(prices []float64, mean float64) float64 {
	variance := 0.0
	for _, p := range prices {
		diff := p - mean
		variance += diff * diff
	}
	variance /= float64(len(prices))
	return math.Sqrt(variance)
}
