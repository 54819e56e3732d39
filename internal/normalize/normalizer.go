// Package normalize converts raw marketplace payloads into canonical price
// records. Scraped input is assumed hostile: the only defect that drops a
// listing is an unusable price, everything else degrades to defaults with a
// flag so batch-level quality is queryable by the caller.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/guarzo/cardcomps/internal/dates"
	"github.com/guarzo/cardcomps/internal/model"
)

// SkipReason says why a listing was excluded from the normalized set.
type SkipReason string

const (
	SkipInvalidPrice  SkipReason = "invalid_price"
	SkipNegativePrice SkipReason = "negative_price"
)

// SkippedListing records one dropped input for batch transparency.
type SkippedListing struct {
	Index  int
	Title  string
	Reason SkipReason
	Detail string
}

// Result is the outcome of one normalization pass: the usable records plus
// the defects encountered along the way. Skips never abort the batch.
type Result struct {
	Records []model.PriceRecord
	Skipped []SkippedListing
	// InferredDates counts records whose date could not be parsed and
	// defaulted to the analysis time.
	InferredDates int
}

// SkippedCount returns how many listings were dropped.
func (r Result) SkippedCount() int { return len(r.Skipped) }

// Normalize converts listings into immutable PriceRecords using the date
// resolver chain. now anchors relative and inferred dates so the pass is
// deterministic for a fixed input.
func Normalize(listings []model.RawListing, now time.Time) Result {
	res := Result{Records: make([]model.PriceRecord, 0, len(listings))}

	for i, l := range listings {
		price, err := ParsePrice(l.Price)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedListing{
				Index:  i,
				Title:  l.Title,
				Reason: SkipInvalidPrice,
				Detail: err.Error(),
			})
			continue
		}
		if price < 0 {
			res.Skipped = append(res.Skipped, SkippedListing{
				Index:  i,
				Title:  l.Title,
				Reason: SkipNegativePrice,
				Detail: fmt.Sprintf("price %.2f", price),
			})
			continue
		}

		soldAt, inferred := dates.Resolve(l.Date, now)
		if inferred {
			res.InferredDates++
		}

		res.Records = append(res.Records, model.PriceRecord{
			Title:        l.Title,
			Price:        price,
			Source:       model.Source(l.Source),
			RawDate:      l.Date,
			SoldAt:       soldAt,
			DateInferred: inferred,
			URL:          l.URL,
			Image:        l.Image,
			Condition:    l.Condition,
		})
	}

	return res
}

var priceCruftRe = regexp.MustCompile(`[£$€,\s]`)

// ParsePrice coerces the loosely typed price field of a raw listing into a
// float. Accepts native numbers and numeric-looking strings, with currency
// symbols and thousands separators stripped. Anything else is an error and
// the listing is skipped, not the batch.
func ParsePrice(v any) (float64, error) {
	switch p := v.(type) {
	case float64:
		return p, nil
	case float32:
		return float64(p), nil
	case int:
		return float64(p), nil
	case int64:
		return float64(p), nil
	case string:
		cleaned := priceCruftRe.ReplaceAllString(strings.TrimSpace(p), "")
		if cleaned == "" {
			return 0, fmt.Errorf("empty price string %q", p)
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable price %q", p)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("missing price")
	default:
		return 0, fmt.Errorf("unsupported price type %T", v)
	}
}
