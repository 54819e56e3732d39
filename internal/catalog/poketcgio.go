package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/guarzo/cardcomps/internal/cache"
	"github.com/guarzo/cardcomps/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.pokemontcg.io/v2"
	// Cardmarket publishes prices in EUR; the analyzer reports GBP.
	eurToGBP = 1.17

	cacheTTL = 6 * time.Hour
)

// PokemonTCG queries the Pokemon TCG API for cardmarket reference
// prices. An API key raises the rate limit but is not required.
type PokemonTCG struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	limiter    *ratelimit.Limiter
}

// NewPokemonTCG builds a client. cache and limiter may be nil.
func NewPokemonTCG(apiKey string, c *cache.Cache, limiter *ratelimit.Limiter) *PokemonTCG {
	return &PokemonTCG{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      c,
		limiter:    limiter,
	}
}

func (p *PokemonTCG) Available() bool { return true }

type cardsResponse struct {
	Data []struct {
		Name       string `json:"name"`
		Cardmarket struct {
			Prices struct {
				TrendPrice       float64 `json:"trendPrice"`
				AverageSellPrice float64 `json:"averageSellPrice"`
				Avg30            float64 `json:"avg30"`
			} `json:"prices"`
		} `json:"cardmarket"`
	} `json:"data"`
}

// ReferencePrice looks the card up by name and returns the current
// trend price in GBP, falling back to the 30-day average when the
// trend price is missing. No match returns (nil, nil).
func (p *PokemonTCG) ReferencePrice(ctx context.Context, searchTerm string) (*float64, error) {
	cacheKey := cache.Key("poketcgio", searchTerm)
	if p.cache != nil {
		var cached float64
		if hit, err := p.cache.Get(cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := p.fetchCards(ctx, searchTerm)
	if err != nil {
		return nil, err
	}

	eur := bestCardmarketPrice(resp)
	if eur == 0 {
		return nil, nil
	}
	gbp := eur / eurToGBP

	if p.cache != nil {
		// A failed cache write costs a future lookup, not this one.
		_ = p.cache.Put(cacheKey, gbp, cacheTTL)
	}
	return &gbp, nil
}

func (p *PokemonTCG) fetchCards(ctx context.Context, searchTerm string) (*cardsResponse, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("name:%q", searchTerm))
	q.Set("pageSize", "5")
	q.Set("orderBy", "-set.releaseDate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/cards?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("X-Api-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	var parsed cardsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalog response: %w", err)
	}
	return &parsed, nil
}

// bestCardmarketPrice picks the first card carrying a usable price.
func bestCardmarketPrice(resp *cardsResponse) float64 {
	for _, card := range resp.Data {
		prices := card.Cardmarket.Prices
		if prices.TrendPrice > 0 {
			return prices.TrendPrice
		}
		if prices.Avg30 > 0 {
			return prices.Avg30
		}
		if prices.AverageSellPrice > 0 {
			return prices.AverageSellPrice
		}
	}
	return 0
}
