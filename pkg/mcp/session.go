// pkg/mcp/session.go
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ToolDispatcher routes tool calls to their implementations. The session owns
// exactly one dispatcher (and through it the provider client, cache and rate
// budget); Close releases those resources when the session ends.
type ToolDispatcher interface {
	// Tools returns the full descriptor catalogue in stable order.
	Tools() []Tool

	// Call invokes the named tool. Failures are reported inside the returned
	// result with IsError set; Call never returns a protocol-level error.
	Call(ctx context.Context, name string, args map[string]any) *CallToolResult

	// Close releases the dispatcher's provider client.
	Close() error
}

// State tracks the session's position in the handshake lifecycle.
type State int

const (
	StateAwaitingHandshake State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingHandshake:
		return "awaiting-handshake"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// maxLineBytes bounds a single inbound frame; longer lines are an
// unrecoverable decode error and close the session.
const maxLineBytes = 1 << 20

// Session manages one connected client: the initialize handshake followed by
// the read-dispatch-write loop over a line-delimited JSON-RPC transport.
// Tool calls run concurrently; responses are written whole-message under a
// mutex so two responses never interleave on the output stream.
type Session struct {
	id         string
	serverName string
	serverVer  string
	dispatcher ToolDispatcher

	// state is only read and written by the Run goroutine.
	state State

	w       io.Writer
	writeMu sync.Mutex

	wg  sync.WaitGroup
	log *log.Entry
}

// NewSession creates a session over the given transport. The caller keeps
// ownership of the reader/writer pair; the session takes ownership of the
// dispatcher and closes it when Run returns.
func NewSession(name, version string, dispatcher ToolDispatcher, w io.Writer) *Session {
	id := uuid.NewString()
	return &Session{
		id:         id,
		serverName: name,
		serverVer:  version,
		dispatcher: dispatcher,
		state:      StateAwaitingHandshake,
		w:          w,
		log:        log.WithField("session_id", id),
	}
}

// Run reads messages from r until EOF or an unrecoverable decode error, then
// waits for in-flight tool calls and releases the dispatcher. Protocol-level
// problems (malformed JSON, unknown methods, premature calls) are answered
// with JSON-RPC error responses and do not end the session.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	defer func() {
		s.state = StateClosed
		s.wg.Wait()
		if err := s.dispatcher.Close(); err != nil {
			s.log.Warnf("Failed to close dispatcher: %v", err)
		}
		s.log.Info("Session closed")
	}()

	s.log.Info("Session started, awaiting handshake")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warnf("Failed to parse inbound frame: %v", err)
			s.writeError(nil, NewParseError(err.Error()))
			continue
		}

		s.handle(ctx, &req)
	}

	if err := scanner.Err(); err != nil {
		s.log.Errorf("Transport read failed: %v", err)
		return fmt.Errorf("transport read failed: %w", err)
	}
	s.log.Debug("Transport EOF")
	return nil
}

// handle routes one decoded request through the session state machine.
func (s *Session) handle(ctx context.Context, req *JSONRPCRequest) {
	// Notifications carry no id and must not be answered (JSON-RPC 2.0).
	// MCP clients send notifications/initialized after the handshake; the
	// session has nothing to do for it.
	if req.ID == nil {
		s.log.Debugf("Ignoring notification: %s", req.Method)
		return
	}

	switch s.state {
	case StateAwaitingHandshake:
		if req.Method != MethodInitialize {
			s.log.Warnf("Method %q before handshake", req.Method)
			s.writeError(req.ID, NewInvalidRequestError(
				map[string]string{"reason": "initialize required before " + req.Method}))
			return
		}
		s.handleInitialize(req)

	case StateReady:
		switch req.Method {
		case MethodInitialize:
			s.writeError(req.ID, NewInvalidRequestError(
				map[string]string{"reason": "session already initialized"}))
		case MethodToolsList:
			s.writeResult(req.ID, ListToolsResult{Tools: s.dispatcher.Tools()})
		case MethodToolsCall:
			s.handleToolsCall(ctx, req)
		default:
			s.writeError(req.ID, NewMethodNotFoundError(
				map[string]string{"method": req.Method}))
		}
	}
}

// handleInitialize answers the handshake and moves the session to Ready.
func (s *Session) handleInitialize(req *JSONRPCRequest) {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.writeError(req.ID, NewInvalidParamsError(err.Error()))
			return
		}
	}

	s.log.Infof("Handshake from client %s %s (protocol %s)",
		params.ClientInfo.Name, params.ClientInfo.Version, params.ProtocolVersion)

	s.writeResult(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ServerCapabilities{Tools: ToolsCapability{}},
		ServerInfo:      ServerInfo{Name: s.serverName, Version: s.serverVer},
	})
	s.state = StateReady
	s.log.Info("Session ready")
}

// handleToolsCall dispatches a tool call on its own goroutine so a slow fetch
// does not block unrelated calls. No cancellation is propagated once
// dispatched; the call runs to completion or exhausts its retries.
func (s *Session) handleToolsCall(ctx context.Context, req *JSONRPCRequest) {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, NewInvalidParamsError(err.Error()))
		return
	}
	if params.Name == "" {
		s.writeError(req.ID, NewInvalidParamsError("tool name is required"))
		return
	}

	id := req.ID
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		result := s.dispatcher.Call(ctx, params.Name, params.Arguments)
		s.writeResult(id, result)
	}()
}

func (s *Session) writeResult(id any, result any) {
	s.write(JSONRPCResponse{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: "2.0", ID: id},
		Result:         result,
	})
}

func (s *Session) writeError(id any, rpcErr *JSONRPCError) {
	s.write(JSONRPCResponse{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: "2.0", ID: id},
		Error:          rpcErr,
	})
}

// write serializes one response as a single newline-terminated frame. The
// marshal happens outside the transport write so the lock covers exactly one
// Write call per message.
func (s *Session) write(resp JSONRPCResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		// Responses are built from our own types; a marshal failure is a bug.
		s.log.Errorf("Failed to marshal response: %v", err)
		return
	}
	payload = append(payload, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.w.Write(payload); err != nil {
		s.log.Warnf("Failed to write response: %v", err)
	}
}
