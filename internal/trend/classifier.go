// Package trend classifies short-term price direction by comparing a
// recent window of sales against the older remainder.
package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/guarzo/cardcomps/internal/model"
)

// recentWindow is how far back a sale still counts as "recent".
const recentWindow = 7 * 24 * time.Hour

// changeThreshold is the percentage move below which the market is called
// stable.
const changeThreshold = 5.0

// Classify splits records into recent and older partitions and compares
// their average prices.
//
// The date split only trusts records with a genuine (non-inferred) sold
// date. When no record has one, the list is split positionally in half on
// the assumption that scrape order is roughly chronological; that path is
// reported via UsedFallback. Either partition being empty yields an
// insufficient classification, which is a normal answer, not an error.
func Classify(records []model.PriceRecord, now time.Time) model.TrendResult {
	dated := make([]model.PriceRecord, 0, len(records))
	for _, r := range records {
		if !r.DateInferred {
			dated = append(dated, r)
		}
	}

	if len(dated) == 0 {
		return classifyPositional(records)
	}

	cutoff := now.Add(-recentWindow)
	var recent, older []model.PriceRecord
	for _, r := range dated {
		if r.SoldAt.Before(cutoff) {
			older = append(older, r)
		} else {
			recent = append(recent, r)
		}
	}

	if len(recent) == 0 || len(older) == 0 {
		return model.TrendResult{
			Direction: model.TrendInsufficient,
			Note: fmt.Sprintf("need sales on both sides of the %d-day boundary; found %d dated sales",
				int(recentWindow.Hours()/24), len(dated)),
		}
	}

	return compare(older, recent, false)
}

// classifyPositional is the no-dates fallback: first half is treated as
// older, second half as recent.
func classifyPositional(records []model.PriceRecord) model.TrendResult {
	mid := len(records) / 2
	older := records[:mid]
	recent := records[mid:]

	if len(older) == 0 || len(recent) == 0 {
		return model.TrendResult{
			Direction:    model.TrendInsufficient,
			UsedFallback: true,
			Note:         fmt.Sprintf("need more sales; found %d with no chronological data", len(records)),
		}
	}

	return compare(older, recent, true)
}

func compare(older, recent []model.PriceRecord, usedFallback bool) model.TrendResult {
	olderAvg := avgPrice(older)
	recentAvg := avgPrice(recent)

	change := (recentAvg - olderAvg) / olderAvg * 100

	result := model.TrendResult{
		ChangePercent: math.Abs(change),
		RecentCount:   len(recent),
		OlderCount:    len(older),
		UsedFallback:  usedFallback,
	}

	switch {
	case change > changeThreshold:
		result.Direction = model.TrendUp
	case change < -changeThreshold:
		result.Direction = model.TrendDown
	default:
		result.Direction = model.TrendStable
	}
	return result
}

func avgPrice(records []model.PriceRecord) float64 {
	sum := 0.0
	for _, r := range records {
		sum += r.Price
	}
	return sum / float64(len(records))
}
