// Package complist persists per-card analysis snapshots so successive
// runs can report how a card's market moved between them.
package complist

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/guarzo/cardcomps/internal/model"
)

// Snapshot is a point-in-time capture of every tracked card's market.
type Snapshot struct {
	Timestamp time.Time             `json:"timestamp"`
	Cards     map[string]*CardEntry `json:"cards"`
}

// CardEntry holds the headline numbers for one card in a snapshot.
type CardEntry struct {
	SearchTerm string                 `json:"search_term"`
	Period     model.TimePeriod       `json:"period"`
	Snapshot   *model.MarketSnapshot  `json:"market,omitempty"`
	Strategy   *model.PricingStrategy `json:"strategy,omitempty"`
	Trend      model.TrendDirection   `json:"trend"`
	Confidence model.ConfidenceLabel  `json:"confidence"`
}

func NewSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		Timestamp: at,
		Cards:     make(map[string]*CardEntry),
	}
}

// Add records a card under its search term, replacing any earlier entry.
func (s *Snapshot) Add(entry *CardEntry) {
	s.Cards[entry.SearchTerm] = entry
}

// Load reads a snapshot from a JSON file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Cards == nil {
		snapshot.Cards = make(map[string]*CardEntry)
	}
	return &snapshot, nil
}

// Save writes the snapshot to a JSON file, creating parent directories.
func Save(path string, snapshot *Snapshot) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Delta is a significant average-price move for one card between runs.
type Delta struct {
	SearchTerm  string    `json:"search_term"`
	OldAverage  float64   `json:"old_average"`
	NewAverage  float64   `json:"new_average"`
	ChangeGBP   float64   `json:"change_gbp"`
	ChangePct   float64   `json:"change_pct"`
	OldSnapshot time.Time `json:"old_snapshot"`
	NewSnapshot time.Time `json:"new_snapshot"`
}

// Compare reports cards whose average price moved by at least
// thresholdPct percent or thresholdGBP pounds between two snapshots.
// Cards missing from either side, or without market data, are skipped.
func Compare(older, newer *Snapshot, thresholdPct, thresholdGBP float64) []Delta {
	var deltas []Delta

	for term, newEntry := range newer.Cards {
		oldEntry, ok := older.Cards[term]
		if !ok {
			continue
		}
		if oldEntry.Snapshot == nil || newEntry.Snapshot == nil {
			continue
		}

		oldAvg := oldEntry.Snapshot.AvgPrice
		newAvg := newEntry.Snapshot.AvgPrice
		if oldAvg <= 0 || newAvg <= 0 {
			continue
		}

		change := newAvg - oldAvg
		pct := change / oldAvg * 100
		if math.Abs(pct) < thresholdPct && math.Abs(change) < thresholdGBP {
			continue
		}

		deltas = append(deltas, Delta{
			SearchTerm:  term,
			OldAverage:  oldAvg,
			NewAverage:  newAvg,
			ChangeGBP:   change,
			ChangePct:   pct,
			OldSnapshot: older.Timestamp,
			NewSnapshot: newer.Timestamp,
		})
	}

	// Largest moves first.
	sort.Slice(deltas, func(i, j int) bool {
		return math.Abs(deltas[i].ChangePct) > math.Abs(deltas[j].ChangePct)
	})
	return deltas
}
