// Package testutil generates deterministic fixture data for tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/guarzo/cardcomps/internal/model"
)

// Factory produces listing and record fixtures from a seeded generator
// so failures reproduce.
type Factory struct {
	rand *rand.Rand
}

func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{rand: rand.New(rand.NewSource(seed))}
}

var cardNames = []string{
	"Charizard ex 199/165 Pokemon 151",
	"Pikachu ex 247/191 Surging Sparks",
	"Mew ex 151/165 Pokemon 151",
	"Umbreon VMAX 215/203 Evolving Skies",
	"Gengar VMAX 271/198 Fusion Strike",
}

// CardName picks a plausible raw-card listing title.
func (f *Factory) CardName() string {
	return cardNames[f.rand.Intn(len(cardNames))]
}

// Price returns a sale price between 5 and 250 pounds, rounded to pence.
func (f *Factory) Price() float64 {
	pence := f.rand.Intn(24500) + 500
	return float64(pence) / 100
}

// SoldDate returns a sale time within daysBack days before now,
// normalized to midday.
func (f *Factory) SoldDate(now time.Time, daysBack int) time.Time {
	d := now.AddDate(0, 0, -f.rand.Intn(daysBack))
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, d.Location())
}

// RawListing builds one listing with a display price string and a
// "27 Jul 2024" style date within daysBack days of now.
func (f *Factory) RawListing(now time.Time, daysBack int) model.RawListing {
	sold := f.SoldDate(now, daysBack)
	return model.RawListing{
		Title:  f.CardName(),
		Price:  fmt.Sprintf("£%.2f", f.Price()),
		Source: string(model.SourceEbayUK),
		Date:   sold.Format("2 Jan 2006"),
		URL:    fmt.Sprintf("https://www.ebay.co.uk/itm/%d", f.rand.Int63()),
	}
}

// RawListings builds n listings.
func (f *Factory) RawListings(n int, now time.Time, daysBack int) []model.RawListing {
	listings := make([]model.RawListing, n)
	for i := range listings {
		listings[i] = f.RawListing(now, daysBack)
	}
	return listings
}

// PriceRecord builds one normalized record within daysBack days of now.
func (f *Factory) PriceRecord(now time.Time, daysBack int) model.PriceRecord {
	sold := f.SoldDate(now, daysBack)
	return model.PriceRecord{
		Title:  f.CardName(),
		Price:  f.Price(),
		Source: model.SourceEbayUK,
		SoldAt: sold,
	}
}

// PriceRecords builds n normalized records.
func (f *Factory) PriceRecords(n int, now time.Time, daysBack int) []model.PriceRecord {
	records := make([]model.PriceRecord, n)
	for i := range records {
		records[i] = f.PriceRecord(now, daysBack)
	}
	return records
}
