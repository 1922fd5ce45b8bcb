// internal/chains/chains.go
package chains

// Chain describes one supported blockchain network. The list is static
// reference data; no network call backs it.
type Chain struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NativeCurrency string `json:"native_currency"`
	Explorer       string `json:"explorer"`
}

// SupportedChainsResult wraps the chain list for tool serialization.
type SupportedChainsResult struct {
	SupportedChains []Chain `json:"supported_chains"`
}

var supported = []Chain{
	{ID: "ethereum", Name: "Ethereum", NativeCurrency: "ETH", Explorer: "https://etherscan.io"},
	{ID: "bsc", Name: "BNB Smart Chain", NativeCurrency: "BNB", Explorer: "https://bscscan.com"},
	{ID: "polygon", Name: "Polygon", NativeCurrency: "MATIC", Explorer: "https://polygonscan.com"},
	{ID: "avalanche", Name: "Avalanche", NativeCurrency: "AVAX", Explorer: "https://snowtrace.io"},
	{ID: "arbitrum", Name: "Arbitrum One", NativeCurrency: "ETH", Explorer: "https://arbiscan.io"},
	{ID: "optimism", Name: "Optimism", NativeCurrency: "ETH", Explorer: "https://optimistic.etherscan.io"},
	{ID: "base", Name: "Base", NativeCurrency: "ETH", Explorer: "https://basescan.org"},
	{ID: "fantom", Name: "Fantom", NativeCurrency: "FTM", Explorer: "https://ftmscan.com"},
}

// Supported returns the supported chains in stable order. The returned slice
// is a copy; callers may not mutate the reference data.
func Supported() []Chain {
	out := make([]Chain, len(supported))
	copy(out, supported)
	return out
}
