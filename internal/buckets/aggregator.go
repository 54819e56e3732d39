// Package buckets partitions normalized sale records into fixed time
// buckets for chart series. Bucket sizing is policy, not configuration:
// each period maps to one bucket size and span, and sparse windows widen to
// the full record set rather than rendering an empty chart.
package buckets

import (
	"fmt"
	"time"

	"github.com/guarzo/cardcomps/internal/model"
)

type labelStyle int

const (
	labelDay labelStyle = iota
	labelRange
	labelMonth
)

type periodSpec struct {
	bucketDays int
	totalDays  int
	style      labelStyle
	// minRecords is the in-span record count below which the aggregator
	// falls back to bucketing the entire set.
	minRecords int
}

var periodSpecs = map[model.TimePeriod]periodSpec{
	model.Period7Days:   {bucketDays: 1, totalDays: 7, style: labelDay, minRecords: 1},
	model.Period30Days:  {bucketDays: 3, totalDays: 30, style: labelRange, minRecords: 5},
	model.Period90Days:  {bucketDays: 7, totalDays: 90, style: labelRange, minRecords: 5},
	model.Period6Months: {bucketDays: 14, totalDays: 180, style: labelRange, minRecords: 5},
	model.PeriodAllTime: {bucketDays: 30, totalDays: 365, style: labelMonth, minRecords: 0},
}

// Series is one bucketized chart series. When UsedFallback is set the
// requested window held too little history and the whole record set was
// bucketed instead; DataFrom/DataTo give the caller the actual range for a
// "data available from X to Y" notice.
type Series struct {
	Buckets      []model.TimeBucket
	UsedFallback bool
	DataFrom     time.Time
	DataTo       time.Time
}

// TotalCount sums the sale counts across all buckets.
func (s Series) TotalCount() int {
	total := 0
	for _, b := range s.Buckets {
		total += b.Count
	}
	return total
}

// Bucketize partitions records into period-sized buckets walking backward
// from now. Assignment is inclusive on both bucket edges and compares
// calendar dates only; time of day never moves a sale between buckets.
// Buckets that receive no sales are dropped from the series.
func Bucketize(records []model.PriceRecord, period model.TimePeriod, now time.Time) (Series, error) {
	spec, ok := periodSpecs[period]
	if !ok {
		return Series{}, fmt.Errorf("unknown time period %q", period)
	}

	selected := records
	usedFallback := false

	// The alltime period never filters: its span is already the widest
	// policy window. Every other period keeps only in-window records,
	// unless that leaves too few to chart and older history exists.
	if period != model.PeriodAllTime {
		cutoff := startOfDay(now.AddDate(0, 0, -spec.totalDays))
		filtered := make([]model.PriceRecord, 0, len(records))
		for _, r := range records {
			if !r.SoldAt.Before(cutoff) {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) < spec.minRecords && len(records) > len(filtered) {
			usedFallback = true
		} else {
			selected = filtered
		}
	}

	series := Series{UsedFallback: usedFallback}
	if len(selected) == 0 {
		return series, nil
	}

	series.DataFrom, series.DataTo = dateRange(selected)

	slots := generateBuckets(spec, now, series.DataFrom, usedFallback)
	for _, r := range selected {
		day := dateOnly(r.SoldAt)
		for i := range slots {
			if day.Before(dateOnly(slots[i].StartDate)) || day.After(dateOnly(slots[i].EndDate)) {
				continue
			}
			slots[i].Sales = append(slots[i].Sales, r)
			slots[i].Count++
			slots[i].TotalValue += r.Price
			slots[i].AveragePrice = slots[i].TotalValue / float64(slots[i].Count)
			break
		}
	}

	for _, b := range slots {
		if b.Count > 0 {
			series.Buckets = append(series.Buckets, b)
		}
	}
	return series, nil
}

// generateBuckets walks backward from now in fixed windows until the span
// is covered, then reverses into chronological order. On fallback the walk
// keeps going until the oldest record is inside a bucket, so widening the
// data set can never produce an empty series.
func generateBuckets(spec periodSpec, now, oldest time.Time, extendToOldest bool) []model.TimeBucket {
	count := (spec.totalDays + spec.bucketDays - 1) / spec.bucketDays
	var out []model.TimeBucket

	for i := 0; ; i++ {
		end := now.AddDate(0, 0, -i*spec.bucketDays)
		start := end.AddDate(0, 0, -(spec.bucketDays - 1))

		covered := i >= count-1
		if covered && extendToOldest {
			covered = !dateOnly(oldest).Before(dateOnly(start))
		}

		out = append(out, model.TimeBucket{
			Label:     bucketLabel(spec.style, start, end),
			StartDate: start,
			EndDate:   end,
		})

		if covered {
			break
		}
	}

	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func bucketLabel(style labelStyle, start, end time.Time) string {
	switch style {
	case labelDay:
		return end.Format("2 Jan")
	case labelMonth:
		return end.Format("Jan 2006")
	default:
		return fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan"))
	}
}

func dateRange(records []model.PriceRecord) (from, to time.Time) {
	from, to = records[0].SoldAt, records[0].SoldAt
	for _, r := range records[1:] {
		if r.SoldAt.Before(from) {
			from = r.SoldAt
		}
		if r.SoldAt.After(to) {
			to = r.SoldAt
		}
	}
	return from, to
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return dateOnly(t)
}
