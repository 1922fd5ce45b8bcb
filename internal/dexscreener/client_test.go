// internal/dexscreener/client_test.go
package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kathir-ks/dexscreener-mcp/internal/cache"
	"github.com/kathir-ks/dexscreener-mcp/internal/ratelimit"
)

const validPairJSON = `{
	"chainId": "ethereum",
	"dexId": "uniswap",
	"url": "https://dexscreener.com/ethereum/0xpair",
	"pairAddress": "0xpair",
	"baseToken": {"address": "0xbase", "name": "Wrapped Ether", "symbol": "WETH"},
	"quoteToken": {"address": "0xquote", "name": "USD Coin", "symbol": "USDC"},
	"priceUsd": "1850.12",
	"volume": {"h24": 12345.6},
	"liquidity": {"usd": 99999.0},
	"pairCreatedAt": 1620000000000
}`

// newTestClient wires a client against a test server with fast backoff so
// retry tests finish quickly.
func newTestClient(baseURL string, rateLimit int, ttl time.Duration) *Client {
	c := cache.New(ttl)
	l := ratelimit.New(rateLimit, time.Minute)
	f := NewFetcher(FetcherDeps{
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		MaxRetries:  3,
		Cache:       c,
		Limiter:     l,
		BackoffBase: time.Millisecond,
		BackoffCap:  5 * time.Millisecond,
	})
	return &Client{
		fetcher:    f,
		cache:      c,
		limiter:    l,
		rateLimit:  rateLimit,
		ratePeriod: time.Minute,
		now:        time.Now,
	}
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"pairs": [` + validPairJSON + `]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	resp, err := client.GetTokenInfo(context.Background(), "0xbase")
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if len(resp.Pairs) != 1 || resp.Pairs[0].BaseToken.Symbol != "WETH" {
		t.Fatalf("unexpected decoded response: %+v", resp)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	_, err := client.GetTokenInfo(context.Background(), "0xdead")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 total attempts, got %d", got)
	}
	if !IsAPIError(err) {
		t.Fatalf("expected normalized APIError, got %T: %v", err, err)
	}
	apiErr := err.(*APIError)
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500 on normalized error, got %d", apiErr.StatusCode)
	}
}

func TestCacheHitBypassesRateLimiter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer srv.Close()

	// Budget of exactly one permit per minute: the first call consumes it.
	client := newTestClient(srv.URL, 1, time.Minute)
	ctx := context.Background()

	if _, err := client.GetTokenInfo(ctx, "0xabc"); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	// Budget is now empty; a repeat of the same request must still succeed
	// immediately because it is served from the cache.
	start := time.Now()
	if _, err := client.GetTokenInfo(ctx, "0xabc"); err != nil {
		t.Fatalf("cached call failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("cached call took %s, expected immediate return", elapsed)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 network call, got %d", got)
	}
}

func TestGetMultiplePairsEmptyInputShortCircuits(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	pairs, err := client.GetMultiplePairs(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch failed: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected empty result, got %d pairs", len(pairs))
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
}

func TestGetMultiplePairsJoinsAddresses(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"pairs": [` + validPairJSON + `]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	pairs, err := client.GetMultiplePairs(context.Background(), []string{"ethereum:0xa", "bsc:0xb"})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if gotPath != "/pairs/ethereum:0xa,bsc:0xb" {
		t.Fatalf("unexpected endpoint path: %s", gotPath)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}

func TestSearchForwardsQueryAndLimit(t *testing.T) {
	var gotQuery, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	limit := 5
	if _, err := client.Search(context.Background(), "pepe", &limit); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotQuery != "pepe" || gotLimit != "5" {
		t.Fatalf("got q=%q limit=%q, want q=pepe limit=5", gotQuery, gotLimit)
	}
}

func TestGetTrendingPairsEndpointSelection(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	ctx := context.Background()

	if _, err := client.GetTrendingPairs(ctx, ""); err != nil {
		t.Fatalf("global trending failed: %v", err)
	}
	if _, err := client.GetTrendingPairs(ctx, "bsc"); err != nil {
		t.Fatalf("chain trending failed: %v", err)
	}

	if len(paths) != 2 || paths[0] != "/tokens" || paths[1] != "/bsc" {
		t.Fatalf("unexpected endpoint paths: %v", paths)
	}
}

func TestDecodeErrorOnInvalidShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Pair is missing dexId, url, pairAddress and both tokens.
		w.Write([]byte(`{"pairs": [{"chainId": "ethereum"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	_, err := client.GetTokenInfo(context.Background(), "0xabc")
	if err == nil {
		t.Fatal("expected decode error for malformed pair")
	}
	if !IsDecodeError(err) {
		t.Fatalf("expected DecodeError, got %T: %v", err, err)
	}
	if IsAPIError(err) {
		t.Fatal("decode failures must stay distinct from fetch errors")
	}
}

func TestGetPairInfoNullPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pair": null}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 100, time.Minute)
	resp, err := client.GetPairInfo(context.Background(), "ethereum", "0xmissing")
	if err != nil {
		t.Fatalf("null pair should not error: %v", err)
	}
	if resp.Pair != nil {
		t.Fatalf("expected nil pair, got %+v", resp.Pair)
	}
}

func TestGetRateLimitInfoIsSynthetic(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", 300, time.Minute)
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fixed }

	info := client.GetRateLimitInfo()
	if info.Limit != 300 || info.RequestsRemaining != 300 {
		t.Fatalf("expected full synthetic budget of 300, got %+v", info)
	}
	if !info.ResetTime.Equal(fixed.Add(time.Minute)) {
		t.Fatalf("expected reset one period out, got %s", info.ResetTime)
	}
}

func TestPairCreatedAtMilliseconds(t *testing.T) {
	ms := int64(1620000000000)
	p := PairInfo{PairCreatedAt: &ms}
	created, ok := p.CreatedAt()
	if !ok {
		t.Fatal("expected timestamp present")
	}
	if created.UnixMilli() != ms {
		t.Fatalf("round trip mismatch: %d", created.UnixMilli())
	}

	var none PairInfo
	if _, ok := none.CreatedAt(); ok {
		t.Fatal("expected absent timestamp to stay absent")
	}
}
