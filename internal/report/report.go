// Package report renders analysis results as CSV. Prices stay at full
// precision through the engine; rounding to pence happens here.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/guarzo/cardcomps/internal/complist"
	"github.com/guarzo/cardcomps/internal/engine"
)

// money formats a price with two decimal places.
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// SummaryRows builds the one-line-per-metric summary for a card.
func SummaryRows(searchTerm string, a *engine.Analysis) [][]string {
	rows := [][]string{
		{"Metric", "Value"},
		{"Search Term", searchTerm},
		{"Generated At", a.GeneratedAt.Format("2006-01-02 15:04")},
		{"Sample Size", strconv.Itoa(len(a.Records))},
		{"Skipped Listings", strconv.Itoa(a.SkippedCount)},
		{"Inferred Dates", strconv.Itoa(a.InferredDates)},
	}

	if a.Snapshot != nil {
		rows = append(rows,
			[]string{"Average Price", money(a.Snapshot.AvgPrice)},
			[]string{"Min Price", money(a.Snapshot.MinPrice)},
			[]string{"Max Price", money(a.Snapshot.MaxPrice)},
			[]string{"Q1", money(a.Snapshot.Q1)},
			[]string{"Q3", money(a.Snapshot.Q3)},
		)
	}
	if a.VolatilityPercent != nil {
		rows = append(rows, []string{"Volatility %", pct(*a.VolatilityPercent)})
	}
	if a.SecondaryPrice != nil {
		rows = append(rows, []string{"Reference Price", money(*a.SecondaryPrice)})
	}

	rows = append(rows,
		[]string{"Trend", string(a.Trend.Direction)},
		[]string{"Trend Change %", pct(a.Trend.ChangePercent)},
		[]string{"Confidence", fmt.Sprintf("%s (%.0f/10)", a.Confidence.Label, a.Confidence.Value)},
		[]string{"Final Average", money(a.Strategy.FinalAverage)},
		[]string{"Buy Value", money(a.Strategy.BuyValue)},
		[]string{"Trade Value", money(a.Strategy.TradeValue)},
		[]string{"Cash Value", money(a.Strategy.CashValue)},
		[]string{"Net Proceeds At Market", money(a.Strategy.NetProceedsAtMarket)},
		[]string{"Listing Price For Market", money(a.Strategy.ListingPriceForMarket)},
	)
	return rows
}

// SalesRows lists every sale that survived normalization.
func SalesRows(a *engine.Analysis) [][]string {
	rows := [][]string{{"Date", "Title", "Price", "Source", "Date Inferred", "URL"}}
	for _, r := range a.Records {
		rows = append(rows, []string{
			r.SoldAt.Format("2006-01-02"),
			r.Title,
			money(r.Price),
			string(r.Source),
			strconv.FormatBool(r.DateInferred),
			r.URL,
		})
	}
	return rows
}

// BucketRows lists the aggregated time buckets for charting.
func BucketRows(a *engine.Analysis) [][]string {
	rows := [][]string{{"Bucket", "Start", "End", "Sales", "Total", "Average"}}
	for _, b := range a.Series.Buckets {
		rows = append(rows, []string{
			b.Label,
			b.StartDate.Format("2006-01-02"),
			b.EndDate.Format("2006-01-02"),
			strconv.Itoa(b.Count),
			money(b.TotalValue),
			money(b.AveragePrice),
		})
	}
	return rows
}

// DeltaRows lists price moves between two watch-list snapshots.
func DeltaRows(deltas []complist.Delta) [][]string {
	rows := [][]string{{"Search Term", "Old Average", "New Average", "Change", "Change %"}}
	for _, d := range deltas {
		rows = append(rows, []string{
			d.SearchTerm,
			money(d.OldAverage),
			money(d.NewAverage),
			money(d.ChangeGBP),
			pct(d.ChangePct),
		})
	}
	return rows
}

// WriteCSV escapes and writes rows to w.
func WriteCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(EscapeCSVRows(rows)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
