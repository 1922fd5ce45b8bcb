// pkg/mcp/jsonrpc.go
package mcp

import (
	"encoding/json"
	"fmt"
)

// JSONRPCMessage is the base for requests and responses.
type JSONRPCMessage struct {
	JSONRPC string `json:"jsonrpc"` // Always "2.0"
	// ID can be string, number, or null; it is opaque and echoed verbatim.
	ID any `json:"id,omitempty"`
}

// JSONRPCRequest represents a generic JSON-RPC request.
// Params stays raw until the method handler knows its shape.
type JSONRPCRequest struct {
	JSONRPCMessage
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// JSONRPCError represents the error object in a JSON-RPC response.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSONRPCResponse represents a generic JSON-RPC response.
// Result and Error are mutually exclusive.
type JSONRPCResponse struct {
	JSONRPCMessage
	Result any           `json:"result,omitempty"`
	Error  *JSONRPCError `json:"error,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

func NewJSONRPCError(code int, message string, data any) *JSONRPCError {
	return &JSONRPCError{Code: code, Message: message, Data: data}
}

func NewParseError(data any) *JSONRPCError {
	return NewJSONRPCError(CodeParseError, "Invalid JSON payload", data)
}

func NewInvalidRequestError(data any) *JSONRPCError {
	return NewJSONRPCError(CodeInvalidRequest, "Request payload validation error", data)
}

func NewMethodNotFoundError(data any) *JSONRPCError {
	return NewJSONRPCError(CodeMethodNotFound, "Method not found", data)
}

func NewInvalidParamsError(data any) *JSONRPCError {
	return NewJSONRPCError(CodeInvalidParams, "Invalid parameters", data)
}

func NewInternalError(data any) *JSONRPCError {
	return NewJSONRPCError(CodeInternalError, "Internal error", data)
}

// Error makes JSONRPCError satisfy the error interface.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}
