// Package refresh re-runs analysis for a watch list of cards on a cron
// schedule, persisting a snapshot after each run and logging which
// cards moved since the previous one.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guarzo/cardcomps/internal/catalog"
	"github.com/guarzo/cardcomps/internal/complist"
	"github.com/guarzo/cardcomps/internal/engine"
	"github.com/guarzo/cardcomps/internal/model"
)

// Fetcher supplies raw sold listings for a search term.
type Fetcher interface {
	SearchSold(ctx context.Context, searchTerm string) ([]model.RawListing, error)
}

// Deltas below these thresholds are noise and not worth logging.
const (
	deltaThresholdPct = 5.0
	deltaThresholdGBP = 1.0
)

type Service struct {
	fetcher      Fetcher
	provider     catalog.Provider
	opts         engine.Options
	watchList    []string
	snapshotPath string
	cron         *cron.Cron
	logger       *log.Logger
}

func NewService(fetcher Fetcher, provider catalog.Provider, opts engine.Options, watchList []string, snapshotPath string) *Service {
	if opts.Period == "" {
		opts.Period = model.Period7Days
	}
	return &Service{
		fetcher:      fetcher,
		provider:     provider,
		opts:         opts,
		watchList:    watchList,
		snapshotPath: snapshotPath,
		logger:       log.New(os.Stderr, "[refresh] ", log.LstdFlags),
	}
}

// Start schedules RunOnce on the given cron expression. Descriptors
// like "@every 6h" work too.
func (s *Service) Start(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, _, err := s.RunOnce(ctx); err != nil {
			s.logger.Printf("refresh run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.cron.Start()
	s.logger.Printf("watching %d cards on schedule %q", len(s.watchList), schedule)
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce analyzes every watched card, saves the new snapshot, and
// returns it with the deltas against the previous snapshot. A card
// whose fetch or analysis fails is logged and skipped so one flaky
// search cannot sink the whole run.
func (s *Service) RunOnce(ctx context.Context) (*complist.Snapshot, []complist.Delta, error) {
	now := s.opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	snapshot := complist.NewSnapshot(now)

	for _, term := range s.watchList {
		entry, err := s.analyzeCard(ctx, term)
		if err != nil {
			s.logger.Printf("skipping %q: %v", term, err)
			continue
		}
		snapshot.Add(entry)
	}

	var deltas []complist.Delta
	previous, err := complist.Load(s.snapshotPath)
	if err == nil {
		deltas = complist.Compare(previous, snapshot, deltaThresholdPct, deltaThresholdGBP)
		for _, d := range deltas {
			s.logger.Printf("%s moved %.1f%% (%.2f -> %.2f)", d.SearchTerm, d.ChangePct, d.OldAverage, d.NewAverage)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		s.logger.Printf("previous snapshot unreadable: %v", err)
	}

	if err := complist.Save(s.snapshotPath, snapshot); err != nil {
		return snapshot, deltas, fmt.Errorf("save snapshot: %w", err)
	}
	return snapshot, deltas, nil
}

func (s *Service) analyzeCard(ctx context.Context, term string) (*complist.CardEntry, error) {
	listings, err := s.fetcher.SearchSold(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}

	opts := s.opts
	if s.provider != nil && s.provider.Available() {
		price, err := s.provider.ReferencePrice(ctx, term)
		if err != nil {
			s.logger.Printf("reference price for %q unavailable: %v", term, err)
		} else {
			opts.SecondaryPrice = price
		}
	}

	analysis, err := engine.Analyze(listings, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	entry := &complist.CardEntry{
		SearchTerm: term,
		Period:     opts.Period,
		Snapshot:   analysis.Snapshot,
		Strategy:   &analysis.Strategy,
		Trend:      analysis.Trend.Direction,
		Confidence: analysis.Confidence.Label,
	}
	return entry, nil
}
