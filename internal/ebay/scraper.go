// Package ebay scrapes sold/completed auction results from eBay UK search
// pages and hands them to the engine as raw listings. Parsing is split
// from transport so the page parser can be tested against static HTML.
package ebay

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/guarzo/cardcomps/internal/model"
)

const (
	searchEndpoint = "https://www.ebay.co.uk/sch/i.html"
	defaultMax     = 25
)

// gradedPattern spots graded-slab listings that slipped past the search
// filters; graded sales price differently and would poison a raw-card
// average.
var gradedPattern = regexp.MustCompile(`(?i)\b(psa|bgs|cgc|sgc|ace|beckett|graded|slab|slabbed|gem\s+mint|pristine|black\s+label)\s*\d*\b`)

// nonListingPhrases appear in placeholder tiles eBay injects into results.
var nonListingPhrases = []string{"shop on ebay", "advertisement", "save this search", "more like this"}

type Config struct {
	// MaxResults caps how many sold listings one search returns.
	MaxResults int
	// RequestsPerMinute paces requests against eBay. Zero means 10.
	RequestsPerMinute int
	Timeout           time.Duration
	UserAgent         string
}

func DefaultConfig() Config {
	return Config{
		MaxResults:        defaultMax,
		RequestsPerMinute: 10,
		Timeout:           15 * time.Second,
		UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Scraper fetches sold-auction listings for a search term.
type Scraper struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewScraper(cfg Config) *Scraper {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMax
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Scraper{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}
}

// SearchSold fetches sold/completed UK auction results for the search term.
// The URL parameters restrict to sold, completed, non-graded auction
// listings in the trading-card category, so post-filtering is minimal.
func (s *Scraper) SearchSold(ctx context.Context, searchTerm string) ([]model.RawListing, error) {
	return s.searchAt(ctx, searchEndpoint, searchTerm)
}

func (s *Scraper) searchAt(ctx context.Context, endpoint, searchTerm string) ([]model.RawListing, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("_nkw", searchTerm)
	params.Set("_sacat", "0")
	params.Set("_from", "R40")
	params.Set("Graded", "No")
	params.Set("_dcat", "183454") // trading card games category
	params.Set("LH_PrefLoc", "1")
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")
	params.Set("rt", "nc")
	params.Set("LH_Auction", "1")
	params.Set("_ipg", "50")
	params.Set("_sop", "13") // most recent first

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.setBrowserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ebay search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ebay search returned status %d", resp.StatusCode)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return ParseSoldPage(reader, s.cfg.MaxResults)
}

func (s *Scraper) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// decodeBody unwraps the content encoding eBay answered with.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// ParseSoldPage extracts sold listings from an eBay search results page.
// One malformed tile never aborts the page; it is simply skipped. Prices
// stay as display strings ("£12.50") and dates as the caption text
// ("Sold 27 Jul 2024" stripped to its date); coercion is the
// normalizer's job.
func ParseSoldPage(r io.Reader, max int) ([]model.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var listings []model.RawListing

	doc.Find("div.s-item, li.s-item, div[data-testid='item-card']").EachWithBreak(func(_ int, tile *goquery.Selection) bool {
		if len(listings) >= max {
			return false
		}

		title := firstText(tile,
			"span[role='heading']",
			".s-item__title",
			"[data-testid='item-title']",
			"h3")
		if title == "" || isNonListing(title) || gradedPattern.MatchString(title) {
			return true
		}

		price := firstText(tile, ".s-item__price", "[data-testid='item-price']", ".notranslate")
		if price == "" {
			return true
		}

		listing := model.RawListing{
			Title:  title,
			Price:  price,
			Source: string(model.SourceEbayUK),
			Date:   soldDate(tile),
		}

		if href, ok := tile.Find("a.s-item__link, a[href*='/itm/']").First().Attr("href"); ok {
			listing.URL = absoluteURL(href)
		}
		if src, ok := tile.Find(".s-item__image img, img").First().Attr("src"); ok {
			listing.Image = src
		}
		listing.Condition = firstText(tile, ".s-item__subtitle .SECONDARY_INFO", ".s-item__subtitle")

		listings = append(listings, listing)
		return true
	})

	return listings, nil
}

var soldPrefixRe = regexp.MustCompile(`(?i)^sold\s+`)

// soldDate pulls the sale date out of the tile caption ("Sold 27 Jul 2024").
func soldDate(tile *goquery.Selection) string {
	caption := firstText(tile,
		".s-item__caption .POSITIVE",
		".s-item__caption",
		".s-item__title--tagblock .POSITIVE")
	return strings.TrimSpace(soldPrefixRe.ReplaceAllString(caption, ""))
}

func firstText(tile *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(tile.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func isNonListing(title string) bool {
	lower := strings.ToLower(title)
	for _, phrase := range nonListingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	// Tiny titles are placeholder tiles, not real sales.
	return len(title) < 15
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return "https://www.ebay.co.uk" + href
	}
	return href
}
