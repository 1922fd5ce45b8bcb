// internal/dexscreener/fetcher.go
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kathir-ks/dexscreener-mcp/internal/cache"
	"github.com/kathir-ks/dexscreener-mcp/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

const userAgent = "DexScreener-MCP-Server/1.0.0"

// FetcherDeps carries everything a Fetcher needs. Cache and Limiter are owned
// by the session's client; the Fetcher only consults them.
type FetcherDeps struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Cache      *cache.Cache
	Limiter    *ratelimit.Limiter

	// BackoffBase and BackoffCap bound the exponential inter-retry delay.
	// Zero values fall back to 1s and 10s.
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// Fetcher wraps a single outbound call with cache lookup, rate-limit
// admission, execution and bounded exponential-backoff retry. Provider
// failures are normalized into *APIError.
type Fetcher struct {
	client      *http.Client
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	backoffCap  time.Duration
	cache       *cache.Cache
	limiter     *ratelimit.Limiter
}

// NewFetcher creates a fetcher against the given provider base URL.
func NewFetcher(deps FetcherDeps) *Fetcher {
	httpClient := deps.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   deps.Timeout,
		}
	}

	maxRetries := deps.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	backoffBase := deps.BackoffBase
	if backoffBase == 0 {
		backoffBase = time.Second
	}
	backoffCap := deps.BackoffCap
	if backoffCap == 0 {
		backoffCap = 10 * time.Second
	}

	return &Fetcher{
		client:      httpClient,
		baseURL:     strings.TrimRight(deps.BaseURL, "/"),
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		cache:       deps.Cache,
		limiter:     deps.Limiter,
	}
}

// cacheKey derives a deterministic key from the endpoint and its parameters.
// url.Values.Encode sorts by key, so equal requests map to equal keys.
func cacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// Fetch returns the JSON body for one provider endpoint. A fresh cache entry
// is served immediately with no permit consumed and no retry logic engaged.
// Otherwise each network attempt consumes a rate-limit permit; transient
// failures (transport errors and non-2xx statuses alike — the policy is
// deliberately permissive) are retried up to MaxRetries total attempts with
// exponential backoff. The decoded payload is cached before returning.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	key := cacheKey(endpoint, params)

	if payload, ok := f.cache.Get(key); ok {
		return payload, nil
	}

	reqURL := f.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr *APIError
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt > 1 {
			wait := f.backoff(attempt - 1)
			log.Debugf("Retrying %s in %s (attempt %d/%d)", reqURL, wait, attempt, f.maxRetries)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, NewAPIError(fmt.Sprintf("request canceled: %v", ctx.Err()))
			case <-timer.C:
			}
		}

		if err := f.limiter.Acquire(ctx); err != nil {
			return nil, NewAPIError(fmt.Sprintf("request canceled: %v", err))
		}

		payload, err := f.attempt(ctx, reqURL)
		if err == nil {
			f.cache.Put(key, payload)
			return payload, nil
		}
		lastErr = err
		log.Warnf("API request failed (attempt %d/%d): %v", attempt, f.maxRetries, err)
	}

	return nil, lastErr
}

// attempt performs exactly one GET against the provider.
func (f *Fetcher) attempt(ctx context.Context, reqURL string) (json.RawMessage, *APIError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewAPIError(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	log.Debugf("Making API request: %s", reqURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewAPIError(fmt.Sprintf("Request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded preview for the error message; the body is not
		// guaranteed to be JSON on failures.
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, NewStatusError(resp.StatusCode,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(preview))))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewAPIError(fmt.Sprintf("failed to read response body: %v", err))
	}
	if !json.Valid(body) {
		return nil, NewAPIError(fmt.Sprintf("HTTP %d: response body is not valid JSON", resp.StatusCode))
	}

	log.Debugf("API request successful: %s (%d bytes)", reqURL, len(body))
	return body, nil
}

// backoff returns the delay before retry number n (1-based), doubling from
// the base and capped.
func (f *Fetcher) backoff(n int) time.Duration {
	d := f.backoffBase << (n - 1)
	if d > f.backoffCap || d <= 0 {
		return f.backoffCap
	}
	return d
}
