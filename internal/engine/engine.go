// Package engine runs the full analysis pipeline over a batch of raw
// marketplace listings: normalize, bucket, summarize, classify the trend,
// score confidence and derive a pricing strategy. The engine is pure and
// synchronous; all I/O (scraping, catalog lookups, persistence) lives in
// the collaborator packages and hands the engine plain data.
package engine

import (
	"fmt"
	"time"

	"github.com/guarzo/cardcomps/internal/buckets"
	"github.com/guarzo/cardcomps/internal/confidence"
	"github.com/guarzo/cardcomps/internal/model"
	"github.com/guarzo/cardcomps/internal/normalize"
	"github.com/guarzo/cardcomps/internal/stats"
	"github.com/guarzo/cardcomps/internal/strategy"
	"github.com/guarzo/cardcomps/internal/trend"
)

// Options configures one analysis run.
type Options struct {
	// Period selects the chart bucketing window. Defaults to 7days.
	Period model.TimePeriod
	// SecondaryPrice is an optional corroborating reference price from a
	// non-sale source (catalog/market price); nil when unavailable.
	SecondaryPrice *float64
	// Percentages drives the pricing strategy derivation.
	Percentages strategy.Percentages
	// Now anchors all date arithmetic. Zero means the wall clock; tests
	// pass a fixed time for determinism.
	Now time.Time
}

// Analysis is the complete output of one run. Value semantics throughout:
// nothing here is shared with other runs or mutated afterwards.
type Analysis struct {
	GeneratedAt time.Time

	Records       []model.PriceRecord
	SkippedCount  int
	Skipped       []normalize.SkippedListing
	InferredDates int

	Series   buckets.Series
	Snapshot *model.MarketSnapshot // nil when no usable sale records
	Trend    model.TrendResult
	// VolatilityPercent is set only when defined (two or more sales).
	VolatilityPercent *float64
	Confidence        model.ConfidenceScore
	Strategy          model.PricingStrategy
	SecondaryPrice    *float64
}

// Analyze runs the pipeline. Individual defective listings are skipped or
// flagged, never fatal; the only error cases are an unknown period and a
// run with no usable sale records and no secondary price (model.ErrNoData).
func Analyze(listings []model.RawListing, opts Options) (*Analysis, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	period := opts.Period
	if period == "" {
		period = model.Period7Days
	}
	pcts := opts.Percentages
	if pcts == (strategy.Percentages{}) {
		pcts = strategy.DefaultPercentages()
	}

	norm := normalize.Normalize(listings, now)

	series, err := buckets.Bucketize(norm.Records, period, now)
	if err != nil {
		return nil, fmt.Errorf("bucketize: %w", err)
	}

	a := &Analysis{
		GeneratedAt:    now,
		Records:        norm.Records,
		SkippedCount:   norm.SkippedCount(),
		Skipped:        norm.Skipped,
		InferredDates:  norm.InferredDates,
		Series:         series,
		SecondaryPrice: opts.SecondaryPrice,
	}

	if len(norm.Records) > 0 {
		snap, err := stats.Compute(norm.Records)
		if err != nil {
			return nil, fmt.Errorf("compute statistics: %w", err)
		}
		a.Snapshot = &snap

		if snap.SampleSize >= 2 {
			v := snap.VolatilityPercent
			a.VolatilityPercent = &v
		}
	}

	a.Trend = trend.Classify(norm.Records, now)

	secondaryAvailable := opts.SecondaryPrice != nil && *opts.SecondaryPrice > 0
	a.Confidence = confidence.Score(len(norm.Records), secondaryAvailable, a.VolatilityPercent, a.Trend)

	snapshot := model.MarketSnapshot{}
	if a.Snapshot != nil {
		snapshot = *a.Snapshot
	}
	strat, err := strategy.Calculate(snapshot, opts.SecondaryPrice, pcts)
	if err != nil {
		// No sales survived normalization and no secondary price exists:
		// the one typed failure this engine surfaces.
		return nil, err
	}
	a.Strategy = strat

	return a, nil
}
