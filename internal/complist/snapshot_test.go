package complist

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/guarzo/cardcomps/internal/model"
)

func entryWithAvg(term string, avg float64) *CardEntry {
	return &CardEntry{
		SearchTerm: term,
		Period:     model.Period7Days,
		Snapshot:   &model.MarketSnapshot{AvgPrice: avg, SampleSize: 4},
		Trend:      model.TrendStable,
		Confidence: model.ConfidenceMedium,
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "latest.json")

	snap := NewSnapshot(time.Date(2024, 7, 30, 12, 0, 0, 0, time.UTC))
	snap.Add(entryWithAvg("charizard ex 199/165", 19.625))

	if err := Save(path, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Timestamp.Equal(snap.Timestamp) {
		t.Errorf("timestamp = %v, want %v", loaded.Timestamp, snap.Timestamp)
	}
	entry, ok := loaded.Cards["charizard ex 199/165"]
	if !ok {
		t.Fatal("card entry missing after round trip")
	}
	if entry.Snapshot == nil || entry.Snapshot.AvgPrice != 19.625 {
		t.Errorf("market data did not survive round trip: %+v", entry.Snapshot)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCompareReportsSignificantMoves(t *testing.T) {
	older := NewSnapshot(time.Date(2024, 7, 23, 0, 0, 0, 0, time.UTC))
	older.Add(entryWithAvg("charizard", 20.0))
	older.Add(entryWithAvg("pikachu", 10.0))
	older.Add(entryWithAvg("mew", 50.0))

	newer := NewSnapshot(time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC))
	newer.Add(entryWithAvg("charizard", 25.0)) // +25%
	newer.Add(entryWithAvg("pikachu", 10.2))   // +2%, below both thresholds
	newer.Add(entryWithAvg("mew", 45.0))       // -10%
	newer.Add(entryWithAvg("new card", 99.0))  // not in older snapshot

	deltas := Compare(older, newer, 5.0, 5.0)
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d: %+v", len(deltas), deltas)
	}

	// Sorted by magnitude: charizard +25% before mew -10%.
	if deltas[0].SearchTerm != "charizard" {
		t.Errorf("largest move first, got %q", deltas[0].SearchTerm)
	}
	if math.Abs(deltas[0].ChangePct-25.0) > 0.0001 {
		t.Errorf("charizard pct = %v, want 25", deltas[0].ChangePct)
	}
	if deltas[1].SearchTerm != "mew" || math.Abs(deltas[1].ChangeGBP+5.0) > 0.0001 {
		t.Errorf("mew delta wrong: %+v", deltas[1])
	}
}

func TestCompareAbsoluteThresholdAlone(t *testing.T) {
	older := NewSnapshot(time.Now().Add(-24 * time.Hour))
	older.Add(entryWithAvg("expensive", 1000.0))

	newer := NewSnapshot(time.Now())
	newer.Add(entryWithAvg("expensive", 1020.0)) // 2% but 20 GBP

	deltas := Compare(older, newer, 5.0, 10.0)
	if len(deltas) != 1 {
		t.Fatalf("20 GBP move should pass the absolute threshold, got %d deltas", len(deltas))
	}
}

func TestCompareSkipsEntriesWithoutMarketData(t *testing.T) {
	older := NewSnapshot(time.Now().Add(-24 * time.Hour))
	older.Add(&CardEntry{SearchTerm: "no data", Period: model.Period7Days})

	newer := NewSnapshot(time.Now())
	newer.Add(entryWithAvg("no data", 30.0))

	if deltas := Compare(older, newer, 1.0, 0.5); len(deltas) != 0 {
		t.Errorf("expected no deltas when old entry lacks market data, got %+v", deltas)
	}
}
