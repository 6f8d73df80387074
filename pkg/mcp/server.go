package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Server is the request dispatcher: it owns the tool catalog and routes
// protocol messages to it. A Server is stateless between calls (it handles
// a message and returns to idle regardless of outcome) and safe for
// concurrent use.
type Server struct {
	reg     *tools.Registry
	logger  *slog.Logger
	name    string
	version string
}

// NewServer wires a dispatcher around the given catalog. logger may be nil.
func NewServer(reg *tools.Registry, name, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{reg: reg, logger: logger, name: name, version: version}
}

// Handle processes one raw JSON-RPC message and returns the marshaled
// response, or nil when no response is owed (notifications). It never
// panics and never returns malformed JSON: every failure inside the tool
// pipeline is converted into a protocol-valid payload.
func (s *Server) Handle(ctx context.Context, raw []byte) []byte {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return marshalResponse(response{
			JSONRPC: jsonrpcVersion,
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: codeParseError, Message: "parse error: " + err.Error()},
		})
	}

	if req.Method == "" {
		if req.isNotification() {
			return nil
		}
		return s.errorResponse(req.ID, codeInvalidRequest, "missing method")
	}

	// Notifications get no reply, whatever the method: both the explicit
	// notifications/ namespace and any request sent without an id.
	if req.isNotification() || strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return s.resultResponse(req.ID, struct{}{})
	case "tools/list":
		return s.resultResponse(req.ID, s.listTools())
	case "tools/call":
		return s.resultResponse(req.ID, s.callTool(ctx, req.Params))
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req request) []byte {
	var params initializeParams
	_ = json.Unmarshal(req.Params, &params)
	version := params.ProtocolVersion
	if version == "" {
		version = protocolVersion
	}
	s.logger.Info("client initialized", "protocol_version", version)
	return s.resultResponse(req.ID, initializeResult{
		ProtocolVersion: version,
		ServerInfo:      serverInfo{Name: s.name, Version: s.version},
	})
}

// listTools returns every registered tool's discovery summary. No side
// effects; identical results for identical catalogs.
func (s *Server) listTools() listToolsResult {
	all := s.reg.All()
	infos := make([]toolInfo, 0, len(all))
	for _, t := range all {
		def := t.Definition()
		infos = append(infos, toolInfo{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return listToolsResult{Tools: infos}
}

// callTool looks up and runs one tool. This is the failure boundary: any
// error or panic raised by validation, encoding, process execution, or
// decoding becomes a textual result with isError set. Nothing here may
// terminate the server or leave it unable to serve the next call.
func (s *Server) callTool(ctx context.Context, rawParams json.RawMessage) (result CallToolResult) {
	callID := uuid.New().String()[:8]
	start := time.Now()

	var params callToolParams
	_ = json.Unmarshal(rawParams, &params)
	if params.Name == "" {
		return errorResult("tool call is missing a tool name")
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool call panicked", "call_id", callID, "tool", params.Name, "panic", r)
			result = errorResult(fmt.Sprintf("tool %s failed: internal error: %v", params.Name, r))
		}
		s.logger.Info("tool call finished",
			"call_id", callID,
			"tool", params.Name,
			"is_error", result.IsError,
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	}()

	tool := s.reg.Get(params.Name)
	if tool == nil {
		return errorResult(fmt.Sprintf("unknown tool: %s (use tools/list to see the catalog)", params.Name))
	}

	// Malformed argument shapes are coerced to empty rather than rejected.
	var args map[string]any
	if len(params.Arguments) > 0 {
		_ = json.Unmarshal(params.Arguments, &args)
	}

	validated, err := tools.ValidateAndCoerce(tool.Definition(), args)
	if err != nil {
		return errorResult(err.Error())
	}

	res, err := tool.Execute(ctx, callID, validated)
	if err != nil {
		return errorResult(err.Error())
	}

	blocks := make([]ContentBlock, 0, len(res.Content))
	for _, c := range res.Content {
		blocks = append(blocks, ContentBlock{Type: c.Type, Text: c.Text})
	}
	if len(blocks) == 0 {
		blocks = []ContentBlock{{Type: "text", Text: "(no output)"}}
	}
	return CallToolResult{Content: blocks}
}

func errorResult(text string) CallToolResult {
	return CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func (s *Server) resultResponse(id json.RawMessage, result any) []byte {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return marshalResponse(response{JSONRPC: jsonrpcVersion, ID: id, Result: result})
}

func (s *Server) errorResponse(id json.RawMessage, code int, msg string) []byte {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return marshalResponse(response{JSONRPC: jsonrpcVersion, ID: id, Error: &rpcError{Code: code, Message: msg}})
}

func marshalResponse(resp response) []byte {
	b, err := json.Marshal(resp)
	if err != nil {
		// The response structs above always marshal; this is unreachable
		// short of a broken Result payload.
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal error"}}`)
	}
	return b
}
