package powershell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// prefixLimit bounds how much raw script output a MalformedOutputError
// carries: enough to show a stray log line without flooding the caller.
const prefixLimit = 256

// MalformedOutputError reports that a script exited successfully but its
// stdout was not the single JSON object the contract requires.
type MalformedOutputError struct {
	Reason string
	// Prefix is a bounded excerpt of the raw output, for diagnostics.
	Prefix string
}

func (e *MalformedOutputError) Error() string {
	if e.Prefix == "" {
		return "malformed script output: " + e.Reason
	}
	return fmt.Sprintf("malformed script output: %s (output begins: %q)", e.Reason, e.Prefix)
}

// Decode parses stdout as the script's single structured document: exactly
// one JSON object and nothing else. Empty output, invalid JSON, trailing
// content, and non-object top-level values all fail with a
// *MalformedOutputError. There is no partial recovery; a half-valid
// document is treated identically to an invalid one.
func Decode(stdout []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, &MalformedOutputError{Reason: "script emitted no output"}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &MalformedOutputError{
			Reason: "invalid JSON: " + err.Error(),
			Prefix: outputPrefix(trimmed),
		}
	}
	// A second document (or interleaved log line) after the first makes the
	// payload non-deterministic; treat it as the script's defect.
	if dec.More() {
		return nil, &MalformedOutputError{
			Reason: "trailing content after JSON document",
			Prefix: outputPrefix(trimmed),
		}
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, &MalformedOutputError{
			Reason: fmt.Sprintf("top-level value is %T, want object", raw),
			Prefix: outputPrefix(trimmed),
		}
	}
	return doc, nil
}

// RequireFields verifies that doc carries every named top-level field, so
// formatters can trust the document shape before reading it.
func RequireFields(doc map[string]any, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := doc[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &MalformedOutputError{
			Reason: "document missing required field(s): " + strings.Join(missing, ", "),
		}
	}
	return nil
}

func outputPrefix(b []byte) string {
	if len(b) > prefixLimit {
		b = b[:prefixLimit]
	}
	return string(b)
}
