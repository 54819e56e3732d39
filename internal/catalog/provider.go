// Package catalog looks up a reference market price for a card from the
// Pokemon TCG API. The engine uses it as the secondary source blended
// against scraped sale averages.
package catalog

import "context"

// Provider yields a reference price in GBP for a card search term.
// A nil price with a nil error means the catalog has no data for the card.
type Provider interface {
	Available() bool
	ReferencePrice(ctx context.Context, searchTerm string) (*float64, error)
}

// Mock is a canned Provider for tests and offline runs.
type Mock struct {
	Prices map[string]float64
	Err    error
}

func (m *Mock) Available() bool { return true }

func (m *Mock) ReferencePrice(_ context.Context, searchTerm string) (*float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Prices[searchTerm]; ok {
		v := p
		return &v, nil
	}
	return nil, nil
}
