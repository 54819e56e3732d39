// Package confidence turns data-availability signals into a bounded 0-10
// score. The score is a heuristic quality signal for display next to a
// price recommendation; it is not a statistical confidence interval and
// callers should present it as such.
package confidence

import (
	"github.com/guarzo/cardcomps/internal/model"
)

// Point values for each availability signal.
const (
	pointsSampleSize = 4.0 // three or more independent sale observations
	pointsSecondary  = 3.0 // a corroborating non-sale reference price exists
	pointsLowVol     = 2.0 // volatility known and under 10%
	pointsTrend      = 1.0 // the trend classifier found an answer

	minSampleSize      = 3
	lowVolatilityLimit = 10.0
	maxScore           = 10.0
)

// Score combines the availability signals additively and clamps to [0, 10].
// volatilityPercent is nil when volatility is unknown (e.g. a single sale);
// unknown volatility earns nothing rather than being treated as low.
func Score(sampleSize int, secondaryPriceAvailable bool, volatilityPercent *float64, trend model.TrendResult) model.ConfidenceScore {
	value := 0.0

	if sampleSize >= minSampleSize {
		value += pointsSampleSize
	}
	if secondaryPriceAvailable {
		value += pointsSecondary
	}
	if volatilityPercent != nil && *volatilityPercent < lowVolatilityLimit {
		value += pointsLowVol
	}
	if trend.Direction != model.TrendInsufficient {
		value += pointsTrend
	}

	if value > maxScore {
		value = maxScore
	}
	if value < 0 {
		value = 0
	}

	return model.ConfidenceScore{Value: value, Label: labelFor(value)}
}

func labelFor(value float64) model.ConfidenceLabel {
	switch {
	case value >= 8:
		return model.ConfidenceHigh
	case value >= 6:
		return model.ConfidenceMedium
	case value >= 4:
		return model.ConfidenceLow
	default:
		return model.ConfidenceVeryLow
	}
}
