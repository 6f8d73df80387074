// Package tools defines the Tool interface, the fixed tool catalog, and
// argument validation for incoming tool calls.
package tools

import (
	"context"
	"encoding/json"
)

// ---------------------------------------------------------------------------
// Content blocks and results
// ---------------------------------------------------------------------------

// Content is one presentation block in a tool response. Only "text" blocks
// are produced by this server; the type tag is kept for wire compatibility.
type Content struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

// Result is the output of a tool execution, sent back to the caller as an
// ordered sequence of content blocks.
type Result struct {
	Content []Content
}

// TextResult wraps a single text block.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult renders an error as a textual result.
func ErrorResult(err error) Result {
	return TextResult("error: " + err.Error())
}

// ---------------------------------------------------------------------------
// Tool interface
// ---------------------------------------------------------------------------

// Definition describes a tool for discovery: its name, a human-readable
// description, and the JSON Schema of its input.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Tool is the interface every diagnostic tool implements. Register it with
// the Registry; the dispatcher calls Execute with validated arguments.
type Tool interface {
	// Definition returns the schema handed to the caller for discovery.
	Definition() Definition
	// Execute runs the tool. ctx carries the per-call timeout and the
	// server's shutdown signal; callID is a correlation ID for logging.
	// params have already been validated and defaulted against the schema.
	// A returned error is reported to the caller as a textual failure; it
	// must never terminate the server.
	Execute(ctx context.Context, callID string, params map[string]any) (Result, error)
}

// ---------------------------------------------------------------------------
// SimpleSchema is a helper for building JSON Schema objects inline.
// ---------------------------------------------------------------------------

type SimpleSchema struct {
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []any     `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// MustSchema returns a JSON Schema for the given SimpleSchema.
func MustSchema(s SimpleSchema) json.RawMessage {
	s2 := map[string]any{
		"type":       "object",
		"properties": s.Properties,
	}
	if len(s.Required) > 0 {
		s2["required"] = s.Required
	}
	b, err := json.Marshal(s2)
	if err != nil {
		panic("tools.MustSchema: " + err.Error())
	}
	return b
}
