// internal/dexscreener/types.go
package dexscreener

import (
	"fmt"
	"time"
)

// Typed decodes of DexScreener API payloads. Field tags follow the provider's
// wire names. Optional fields are pointers or nil-able maps so that absent
// values stay absent instead of collapsing to zero values.

// TokenInfo describes one token inside a pair.
type TokenInfo struct {
	Address  string  `json:"address"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Decimals *int    `json:"decimals,omitempty"`
	LogoURI  *string `json:"logoURI,omitempty"`
}

func (t *TokenInfo) validate(role string) error {
	if t.Address == "" {
		return fmt.Errorf("%s.address is missing", role)
	}
	if t.Name == "" {
		return fmt.Errorf("%s.name is missing", role)
	}
	if t.Symbol == "" {
		return fmt.Errorf("%s.symbol is missing", role)
	}
	return nil
}

// TxnStats counts buys and sells inside one provider time window.
type TxnStats struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairInfo describes one trading pair. The statistical maps are keyed by
// provider-defined window labels such as "m5", "h1", "h24".
type PairInfo struct {
	ChainID     string    `json:"chainId"`
	DexID       string    `json:"dexId"`
	URL         string    `json:"url"`
	PairAddress string    `json:"pairAddress"`
	BaseToken   TokenInfo `json:"baseToken"`
	QuoteToken  TokenInfo `json:"quoteToken"`

	PriceNative *string `json:"priceNative,omitempty"`
	PriceUSD    *string `json:"priceUsd,omitempty"`

	Txns        map[string]TxnStats `json:"txns,omitempty"`
	Volume      map[string]float64  `json:"volume,omitempty"`
	PriceChange map[string]float64  `json:"priceChange,omitempty"`
	Liquidity   map[string]float64  `json:"liquidity,omitempty"`

	FDV       *float64 `json:"fdv,omitempty"`
	MarketCap *float64 `json:"marketCap,omitempty"`

	// PairCreatedAt is a unix timestamp in milliseconds, as sent on the wire.
	PairCreatedAt *int64 `json:"pairCreatedAt,omitempty"`
}

// CreatedAt converts the provider's millisecond timestamp, when present.
func (p *PairInfo) CreatedAt() (time.Time, bool) {
	if p.PairCreatedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*p.PairCreatedAt), true
}

func (p *PairInfo) validate() error {
	if p.ChainID == "" {
		return fmt.Errorf("chainId is missing")
	}
	if p.DexID == "" {
		return fmt.Errorf("dexId is missing")
	}
	if p.URL == "" {
		return fmt.Errorf("url is missing")
	}
	if p.PairAddress == "" {
		return fmt.Errorf("pairAddress is missing")
	}
	if err := p.BaseToken.validate("baseToken"); err != nil {
		return err
	}
	if err := p.QuoteToken.validate("quoteToken"); err != nil {
		return err
	}
	return nil
}

// TokenResponse is the payload of the token-by-address endpoint.
type TokenResponse struct {
	Pairs []PairInfo `json:"pairs"`
}

// PairResponse is the payload of the pair-by-chain-and-address endpoint.
// Pair is nil when the provider knows no such pair.
type PairResponse struct {
	Pair *PairInfo `json:"pair,omitempty"`
}

// SearchResult is the payload of the search endpoint.
type SearchResult struct {
	Pairs []PairInfo `json:"pairs"`
}

// TrendingResponse is the payload of the trending endpoint.
type TrendingResponse struct {
	Pairs []PairInfo `json:"pairs"`
}

// MultiplePairsResult wraps the batch lookup for serialization.
type MultiplePairsResult struct {
	Pairs []PairInfo `json:"pairs"`
}

// RateLimitInfo is a local, synthetic report derived from configuration, not
// a live server-reported value. The provider does not expose its counters.
type RateLimitInfo struct {
	RequestsRemaining int       `json:"requests_remaining"`
	ResetTime         time.Time `json:"reset_time"`
	Limit             int       `json:"limit"`
}
