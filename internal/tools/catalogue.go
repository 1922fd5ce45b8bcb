// internal/tools/catalogue.go
package tools

import (
	"github.com/kathir-ks/dexscreener-mcp/pkg/mcp"
)

// Tool names. The catalogue below is the complete and only set of invocable
// operations; a name outside it is an unknown-tool error.
const (
	ToolGetTokenInfo       = "get_token_info"
	ToolGetPairInfo        = "get_pair_info"
	ToolSearchTokens       = "search_tokens"
	ToolGetTrendingPairs   = "get_trending_pairs"
	ToolGetMultiplePairs   = "get_multiple_pairs"
	ToolGetSupportedChains = "get_supported_chains"
	ToolGetRateLimitInfo   = "get_rate_limit_info"
)

// Argument bounds enforced before any network call.
const (
	SearchLimitMin = 1
	SearchLimitMax = 100
	BatchPairsMax  = 30
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// Catalogue returns the full descriptor catalogue in stable order. Built once
// at dispatcher construction; descriptors are immutable afterwards.
func Catalogue() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        ToolGetTokenInfo,
			Description: "Get comprehensive token information and trading pairs",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"token_address": {
						Type:        "string",
						Description: "Token contract address (e.g., 0x...)",
					},
				},
				Required: []string{"token_address"},
			},
		},
		{
			Name:        ToolGetPairInfo,
			Description: "Get detailed trading pair information",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"chain_id": {
						Type:        "string",
						Description: "Blockchain identifier (e.g., ethereum, bsc, polygon)",
					},
					"pair_address": {
						Type:        "string",
						Description: "Trading pair contract address",
					},
				},
				Required: []string{"chain_id", "pair_address"},
			},
		},
		{
			Name:        ToolSearchTokens,
			Description: "Search for tokens and trading pairs by name, symbol, or address",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"query": {
						Type:        "string",
						Description: "Search query (token name, symbol, or address)",
					},
					"limit": {
						Type:        "integer",
						Description: "Maximum number of results (optional, default: 20)",
						Minimum:     floatPtr(SearchLimitMin),
						Maximum:     floatPtr(SearchLimitMax),
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolGetTrendingPairs,
			Description: "Get trending/popular trading pairs, optionally filtered by blockchain",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"chain_id": {
						Type:        "string",
						Description: "Optional blockchain identifier to filter by",
					},
				},
				Required: []string{},
			},
		},
		{
			Name:        ToolGetMultiplePairs,
			Description: "Get information for multiple trading pairs in a batch request",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"pair_addresses": {
						Type:        "array",
						Items:       &mcp.Property{Type: "string"},
						Description: "List of pair addresses in format 'chain:address'",
						MinItems:    intPtr(1),
						MaxItems:    intPtr(BatchPairsMax),
					},
				},
				Required: []string{"pair_addresses"},
			},
		},
		{
			Name:        ToolGetSupportedChains,
			Description: "Get list of supported blockchain networks",
			InputSchema: mcp.InputSchema{
				Type:       "object",
				Properties: map[string]mcp.Property{},
				Required:   []string{},
			},
		},
		{
			Name:        ToolGetRateLimitInfo,
			Description: "Get current API rate limit status and information",
			InputSchema: mcp.InputSchema{
				Type:       "object",
				Properties: map[string]mcp.Property{},
				Required:   []string{},
			},
		},
	}
}
