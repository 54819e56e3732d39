// Command cardcomps analyzes sold-listing comps for a trading card and
// prints market statistics, trend, and pricing strategy.
//
// One-shot analysis:
//
//	cardcomps -search "charizard ex 199/165" -period 30days -format csv
//
// Re-analyze saved listings without touching the network:
//
//	cardcomps -input listings.json
//
// Watch mode re-runs a list of searches on a schedule and reports
// price moves between runs:
//
//	cardcomps -watch -watchlist cards.txt
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/guarzo/cardcomps/internal/cache"
	"github.com/guarzo/cardcomps/internal/catalog"
	"github.com/guarzo/cardcomps/internal/config"
	"github.com/guarzo/cardcomps/internal/ebay"
	"github.com/guarzo/cardcomps/internal/engine"
	"github.com/guarzo/cardcomps/internal/model"
	"github.com/guarzo/cardcomps/internal/ratelimit"
	"github.com/guarzo/cardcomps/internal/refresh"
	"github.com/guarzo/cardcomps/internal/report"
)

func main() {
	var (
		search    = flag.String("search", "", "card search term for live eBay sold listings")
		input     = flag.String("input", "", "JSON file of raw listings to analyze instead of scraping")
		period    = flag.String("period", "7days", "time period: 7days, 30days, 90days, 6months, alltime")
		format    = flag.String("format", "json", "output format: json or csv")
		secondary = flag.Float64("secondary", 0, "reference price override in GBP (0 uses the catalog)")
		noCatalog = flag.Bool("no-catalog", false, "skip the catalog reference price lookup")
		watch     = flag.Bool("watch", false, "run the watch-list scheduler instead of a one-shot analysis")
		watchFile = flag.String("watchlist", "", "file with one search term per line (watch mode)")
	)
	flag.Parse()

	cfg := config.Load()

	p := model.TimePeriod(*period)
	if !p.Valid() {
		log.Fatalf("unknown period %q", *period)
	}

	limiters := ratelimit.NewDefaults()
	responseCache, err := cache.New(cfg.CachePath)
	if err != nil {
		log.Fatalf("open cache: %v", err)
	}

	scraperCfg := ebay.DefaultConfig()
	scraperCfg.MaxResults = cfg.MaxListings
	scraperCfg.Timeout = cfg.RequestTimeout
	scraper := ebay.NewScraper(scraperCfg)

	var provider catalog.Provider
	if !*noCatalog {
		provider = catalog.NewPokemonTCG(cfg.PokemonTCGAPIKey, responseCache, limiters.Catalog)
	}

	opts := engine.Options{
		Period:      p,
		Percentages: cfg.Percentages,
	}
	if *secondary > 0 {
		opts.SecondaryPrice = secondary
	}

	if *watch {
		runWatch(scraper, provider, opts, cfg, *watchFile)
		return
	}

	if *search == "" && *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	listings, term, err := loadListings(ctx, scraper, *search, *input)
	if err != nil {
		log.Fatalf("load listings: %v", err)
	}
	log.Printf("analyzing %d listings for %q", len(listings), term)

	if opts.SecondaryPrice == nil && provider != nil && provider.Available() && term != "" {
		price, err := provider.ReferencePrice(ctx, term)
		if err != nil {
			log.Printf("reference price unavailable: %v", err)
		} else {
			opts.SecondaryPrice = price
		}
	}

	analysis, err := engine.Analyze(listings, opts)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	if err := printAnalysis(term, analysis, *format); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

// loadListings reads raw listings from a JSON file or scrapes them live.
func loadListings(ctx context.Context, scraper *ebay.Scraper, search, input string) ([]model.RawListing, string, error) {
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, "", fmt.Errorf("read input file: %w", err)
		}
		var listings []model.RawListing
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, "", fmt.Errorf("parse input file: %w", err)
		}
		return listings, search, nil
	}

	listings, err := scraper.SearchSold(ctx, search)
	if err != nil {
		return nil, "", fmt.Errorf("ebay search: %w", err)
	}
	return listings, search, nil
}

func printAnalysis(term string, analysis *engine.Analysis, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
		fmt.Println(string(out))
		return nil
	case "csv":
		if err := report.WriteCSV(os.Stdout, report.SummaryRows(term, analysis)); err != nil {
			return err
		}
		fmt.Println()
		if err := report.WriteCSV(os.Stdout, report.BucketRows(analysis)); err != nil {
			return err
		}
		fmt.Println()
		return report.WriteCSV(os.Stdout, report.SalesRows(analysis))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runWatch(scraper *ebay.Scraper, provider catalog.Provider, opts engine.Options, cfg config.Config, watchFile string) {
	if watchFile == "" {
		log.Fatal("watch mode requires -watchlist")
	}
	watchList, err := readWatchList(watchFile)
	if err != nil {
		log.Fatalf("read watch list: %v", err)
	}
	if len(watchList) == 0 {
		log.Fatal("watch list is empty")
	}

	svc := refresh.NewService(scraper, provider, opts, watchList, cfg.SnapshotPath)

	// Run immediately, then on the schedule.
	snap, deltas, err := svc.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("initial refresh: %v", err)
	}
	log.Printf("snapshotted %d cards", len(snap.Cards))
	if len(deltas) > 0 {
		_ = report.WriteCSV(os.Stdout, report.DeltaRows(deltas))
	}

	if err := svc.Start(cfg.RefreshSchedule); err != nil {
		log.Fatalf("start scheduler: %v", err)
	}
	defer svc.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down")
}

func readWatchList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watch list: %w", err)
	}
	defer f.Close()

	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan watch list: %w", err)
	}
	return terms, nil
}
