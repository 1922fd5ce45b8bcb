// internal/dexscreener/client.go
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kathir-ks/dexscreener-mcp/internal/cache"
	"github.com/kathir-ks/dexscreener-mcp/internal/config"
	"github.com/kathir-ks/dexscreener-mcp/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

// Client exposes the typed DexScreener operations on top of the Fetcher.
// Each session owns exactly one Client, and with it one cache and one rate
// budget; nothing is shared across sessions.
type Client struct {
	fetcher *Fetcher
	cache   *cache.Cache
	limiter *ratelimit.Limiter

	rateLimit  int
	ratePeriod time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewClient wires a client from the loaded configuration.
func NewClient(cfg *config.Config) *Client {
	c := cache.New(cfg.CacheTTL)
	l := ratelimit.New(cfg.RateLimit, cfg.RatePeriod)

	fetcher := NewFetcher(FetcherDeps{
		BaseURL:    cfg.DexBaseURL,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		Cache:      c,
		Limiter:    l,
	})

	log.Infof("DexScreener client initialized (rate limit: %d/%s, cache TTL: %s, timeout: %s)",
		cfg.RateLimit, cfg.RatePeriod, cfg.CacheTTL, cfg.RequestTimeout)

	return &Client{
		fetcher:    fetcher,
		cache:      c,
		limiter:    l,
		rateLimit:  cfg.RateLimit,
		ratePeriod: cfg.RatePeriod,
		now:        time.Now,
	}
}

// Close discards the client's cache and limiter state. Nothing persists
// across sessions.
func (c *Client) Close() error {
	c.cache.Flush()
	log.Debug("DexScreener client closed")
	return nil
}

// GetTokenInfo fetches a token's trading pairs by contract address.
func (c *Client) GetTokenInfo(ctx context.Context, tokenAddress string) (*TokenResponse, error) {
	raw, err := c.fetcher.Fetch(ctx, "tokens/"+url.PathEscape(tokenAddress), nil)
	if err != nil {
		return nil, err
	}

	var resp TokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, NewDecodeError("token response", err)
	}
	if err := validatePairs(resp.Pairs); err != nil {
		return nil, NewDecodeError("token response", err)
	}
	return &resp, nil
}

// GetPairInfo fetches one trading pair by chain and pair address.
func (c *Client) GetPairInfo(ctx context.Context, chainID, pairAddress string) (*PairResponse, error) {
	endpoint := fmt.Sprintf("pairs/%s/%s", url.PathEscape(chainID), url.PathEscape(pairAddress))
	raw, err := c.fetcher.Fetch(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp PairResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, NewDecodeError("pair response", err)
	}
	if resp.Pair != nil {
		if err := resp.Pair.validate(); err != nil {
			return nil, NewDecodeError("pair response", err)
		}
	}
	return &resp, nil
}

// Search looks up tokens and pairs by name, symbol or address. A nil limit
// leaves the result count to the provider.
func (c *Client) Search(ctx context.Context, query string, limit *int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit != nil {
		params.Set("limit", strconv.Itoa(*limit))
	}

	raw, err := c.fetcher.Fetch(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	var resp SearchResult
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, NewDecodeError("search response", err)
	}
	if err := validatePairs(resp.Pairs); err != nil {
		return nil, NewDecodeError("search response", err)
	}
	return &resp, nil
}

// GetTrendingPairs fetches trending pairs for one chain, or from the default
// global endpoint when chainID is empty.
func (c *Client) GetTrendingPairs(ctx context.Context, chainID string) (*TrendingResponse, error) {
	endpoint := "tokens"
	if chainID != "" {
		endpoint = url.PathEscape(chainID)
	}

	raw, err := c.fetcher.Fetch(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp TrendingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, NewDecodeError("trending response", err)
	}
	if err := validatePairs(resp.Pairs); err != nil {
		return nil, NewDecodeError("trending response", err)
	}
	return &resp, nil
}

// GetMultiplePairs fetches a batch of pairs given "chain:address" strings.
// An empty input short-circuits to an empty result with no network call.
func (c *Client) GetMultiplePairs(ctx context.Context, pairAddresses []string) ([]PairInfo, error) {
	if len(pairAddresses) == 0 {
		return []PairInfo{}, nil
	}

	// The provider accepts comma-joined pair addresses on one endpoint.
	endpoint := "pairs/" + strings.Join(pairAddresses, ",")
	raw, err := c.fetcher.Fetch(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Pairs []PairInfo `json:"pairs"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, NewDecodeError("multiple pairs response", err)
	}
	if err := validatePairs(resp.Pairs); err != nil {
		return nil, NewDecodeError("multiple pairs response", err)
	}
	if resp.Pairs == nil {
		resp.Pairs = []PairInfo{}
	}
	return resp.Pairs, nil
}

// GetRateLimitInfo reports the configured budget as a snapshot. This is a
// synthetic, local report: the provider does not expose live counters, so
// remaining always equals the full budget and the reset is one period out.
func (c *Client) GetRateLimitInfo() RateLimitInfo {
	return RateLimitInfo{
		RequestsRemaining: c.rateLimit,
		ResetTime:         c.now().Add(c.ratePeriod),
		Limit:             c.rateLimit,
	}
}

func validatePairs(pairs []PairInfo) error {
	for i := range pairs {
		if err := pairs[i].validate(); err != nil {
			return fmt.Errorf("pairs[%d]: %w", i, err)
		}
	}
	return nil
}
