package model

import (
	"errors"
	"time"
)

// ErrNoData is returned when a statistics or strategy computation is asked
// to work over an empty record set. Callers are expected to guard; this is
// the only failure the engine surfaces for structurally empty input.
var ErrNoData = errors.New("no price data available")

// Source identifies where a sale observation came from. Extensible: any
// string is valid, the constants cover the marketplaces we scrape today.
type Source string

const (
	SourceEbayUK        Source = "eBay UK Sold Auction"
	SourcePokemonTCGAPI Source = "Pokemon TCG API"
	SourcePriceCharting Source = "Price Charting"
)

// TimePeriod selects the analysis window for chart bucketing.
type TimePeriod string

const (
	Period7Days   TimePeriod = "7days"
	Period30Days  TimePeriod = "30days"
	Period90Days  TimePeriod = "90days"
	Period6Months TimePeriod = "6months"
	PeriodAllTime TimePeriod = "alltime"
)

// Valid reports whether p is one of the known periods.
func (p TimePeriod) Valid() bool {
	switch p {
	case Period7Days, Period30Days, Period90Days, Period6Months, PeriodAllTime:
		return true
	}
	return false
}

// RawListing is one scraped marketplace payload, exactly as received.
// Price may be a float64, an int, or a numeric-looking string ("£1,234.50");
// the normalizer decides whether it is usable.
type RawListing struct {
	Title     string `json:"title"`
	Price     any    `json:"price"`
	Source    string `json:"source"`
	Date      string `json:"date,omitempty"`
	URL       string `json:"url,omitempty"`
	Image     string `json:"image,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// PriceRecord is one normalized sale observation. Records are created once
// per normalization pass and never mutated afterwards.
type PriceRecord struct {
	Title     string
	Price     float64
	Source    Source
	RawDate   string // as received; empty when the listing carried no date
	SoldAt    time.Time
	// DateInferred is true when RawDate was absent or unparseable and
	// SoldAt defaulted to the analysis time.
	DateInferred bool

	URL       string
	Image     string
	Condition string
}

// TimeBucket is one period slice of a chart series. Count always equals
// len(Sales); buckets with Count == 0 are never returned.
type TimeBucket struct {
	Label        string
	StartDate    time.Time
	EndDate      time.Time
	Sales        []PriceRecord
	Count        int
	TotalValue   float64
	AveragePrice float64
}

// MarketSnapshot holds summary statistics over a record subset.
// Q1/Q3 use simple index quantiles (floor(n*0.25), floor(n*0.75) of the
// price-sorted slice). That matches the behavior this engine replaces and
// is kept for compatibility; switching to interpolated quantiles is a
// versioned algorithm change, not a cleanup.
type MarketSnapshot struct {
	MinPrice          float64
	MaxPrice          float64
	AvgPrice          float64
	Q1                float64
	Q3                float64
	VolatilityPercent float64 // coefficient of variation, stddev/mean*100
	SampleSize        int
}

// TrendDirection classifies recent price movement.
type TrendDirection string

const (
	TrendUp           TrendDirection = "up"
	TrendDown         TrendDirection = "down"
	TrendStable       TrendDirection = "stable"
	TrendInsufficient TrendDirection = "insufficient"
)

// TrendResult compares a recent sub-window against an older one.
// ChangePercent is always the magnitude; Direction carries the sign.
type TrendResult struct {
	Direction     TrendDirection
	ChangePercent float64
	RecentCount   int
	OlderCount    int
	// UsedFallback is true when no record had a genuine date and the
	// positional half-split was used instead of the date split.
	UsedFallback bool
	// Note explains an insufficient classification to the caller.
	Note string
}

// ConfidenceLabel buckets a confidence score for display.
type ConfidenceLabel string

const (
	ConfidenceVeryLow ConfidenceLabel = "VeryLow"
	ConfidenceLow     ConfidenceLabel = "Low"
	ConfidenceMedium  ConfidenceLabel = "Medium"
	ConfidenceHigh    ConfidenceLabel = "High"
)

// ConfidenceScore is a heuristic 0-10 signal of how trustworthy a price
// recommendation is. It is not a statistical interval.
type ConfidenceScore struct {
	Value float64
	Label ConfidenceLabel
}

// PricingStrategy derives seller-facing values from the reconciled average.
// All fields carry full precision; rounding happens at the report boundary.
type PricingStrategy struct {
	FinalAverage float64
	BuyValue     float64
	TradeValue   float64
	CashValue    float64
	// NetProceedsAtMarket is what a seller nets listing at FinalAverage on
	// a fee-charging marketplace; ListingPriceForMarket is the inverse,
	// the list price needed to net exactly FinalAverage after fees.
	NetProceedsAtMarket   float64
	ListingPriceForMarket float64
}
