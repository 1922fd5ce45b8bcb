// internal/tools/dispatcher.go
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kathir-ks/dexscreener-mcp/internal/chains"
	"github.com/kathir-ks/dexscreener-mcp/internal/dexscreener"
	"github.com/kathir-ks/dexscreener-mcp/pkg/mcp"
	log "github.com/sirupsen/logrus"
)

// Dispatcher holds the closed tool catalogue and routes validated calls to
// the provider client. It is stateless per call: the catalogue is the only
// persisted state.
type Dispatcher struct {
	client *dexscreener.Client
	tools  []mcp.Tool
	byName map[string]mcp.Tool
}

// NewDispatcher builds the catalogue once and binds it to a provider client.
// The dispatcher takes ownership of the client.
func NewDispatcher(client *dexscreener.Client) *Dispatcher {
	catalogue := Catalogue()
	byName := make(map[string]mcp.Tool, len(catalogue))
	for _, t := range catalogue {
		byName[t.Name] = t
	}
	return &Dispatcher{
		client: client,
		tools:  catalogue,
		byName: byName,
	}
}

// Tools implements mcp.ToolDispatcher. Order is stable within a session.
func (d *Dispatcher) Tools() []mcp.Tool {
	return d.tools
}

// Close implements mcp.ToolDispatcher, releasing the owned provider client.
func (d *Dispatcher) Close() error {
	return d.client.Close()
}

// Call implements mcp.ToolDispatcher. Every failure path funnels into an
// error-flagged result: the protocol layer always receives a result object,
// never a transport-level failure.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	if args == nil {
		args = map[string]any{}
	}

	tool, ok := d.byName[name]
	if !ok {
		log.Warnf("Unknown tool called: %s", name)
		return errorResult(fmt.Sprintf("unknown tool: %s", name))
	}

	log.Infof("Tool called: %s", name)

	if err := validateArgs(tool.InputSchema, args); err != nil {
		log.Warnf("Validation failed for %s: %v", name, err)
		return errorResult("Validation Error: " + err.Error())
	}

	result, err := d.route(ctx, name, args)
	if err != nil {
		msg := errorMessage(err)
		log.Errorf("Tool %s failed: %s", name, msg)
		return errorResult(msg)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		// Result types are our own structs; this indicates a bug.
		log.Errorf("Failed to serialize result of %s: %v", name, err)
		return errorResult("Unexpected Error: failed to serialize tool result")
	}

	log.Infof("Tool completed successfully: %s", name)
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: "text", Text: string(payload)}},
	}
}

// route invokes the provider client operation matching the tool name.
// Arguments have already passed schema validation.
func (d *Dispatcher) route(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case ToolGetTokenInfo:
		return d.client.GetTokenInfo(ctx, stringArg(args, "token_address"))

	case ToolGetPairInfo:
		return d.client.GetPairInfo(ctx, stringArg(args, "chain_id"), stringArg(args, "pair_address"))

	case ToolSearchTokens:
		return d.client.Search(ctx, stringArg(args, "query"), optionalIntArg(args, "limit"))

	case ToolGetTrendingPairs:
		return d.client.GetTrendingPairs(ctx, stringArg(args, "chain_id"))

	case ToolGetMultiplePairs:
		pairs, err := d.client.GetMultiplePairs(ctx, stringSliceArg(args, "pair_addresses"))
		if err != nil {
			return nil, err
		}
		return dexscreener.MultiplePairsResult{Pairs: pairs}, nil

	case ToolGetSupportedChains:
		return chains.SupportedChainsResult{SupportedChains: chains.Supported()}, nil

	case ToolGetRateLimitInfo:
		return d.client.GetRateLimitInfo(), nil
	}

	// Unreachable: names outside the catalogue were rejected above.
	return nil, fmt.Errorf("unknown tool: %s", name)
}

// errorMessage converts a provider-layer error into the human-readable text
// carried by the error-flagged result.
func errorMessage(err error) string {
	var apiErr *dexscreener.APIError
	if errors.As(err, &apiErr) {
		return "DexScreener API Error: " + apiErr.Error()
	}
	var decErr *dexscreener.DecodeError
	if errors.As(err, &decErr) {
		return "DexScreener Response Error: " + decErr.Error()
	}
	return "Unexpected Error: " + err.Error()
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: "text", Text: message}},
		IsError: true,
	}
}

// --- Argument extraction ---
// Safe after schema validation: types have already been checked.

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func optionalIntArg(args map[string]any, key string) *int {
	v, ok := args[key]
	if !ok {
		return nil
	}
	n, ok := asNumber(v)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

func stringSliceArg(args map[string]any, key string) []string {
	items, _ := args[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
