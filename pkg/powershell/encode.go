// Package powershell is the process-execution bridge: it encodes parameter
// maps into PowerShell argument fragments, runs the interpreter as a
// subprocess, and decodes the JSON document the script emits on stdout.
package powershell

import (
	"fmt"
	"strconv"
	"strings"
)

// Arg is one named parameter for a script invocation. Args are encoded in
// slice order, so each tool's builder controls the flag order
// deterministically.
type Arg struct {
	Name  string
	Value any
}

// EncodeArgs renders args as a single PowerShell argument fragment, e.g.
//
//	-LogName 'System' -MaxEvents '50' -Verbose
//
// Rules, applied per argument in slice order:
//   - nil values are omitted entirely (no flag emitted).
//   - bool true emits the bare switch flag; bool false emits nothing.
//   - strings and numbers emit the flag followed by one single-quoted value
//     token, with embedded single quotes doubled so the interpreter parses
//     the value as one literal regardless of whitespace or emptiness.
//   - lists are joined with commas into one quoted token. Elements that
//     themselves contain a comma cannot be represented: the receiving script
//     splits on the same comma, so such values round-trip incorrectly. This
//     is a known boundary of the script contract.
//   - an empty list encodes as an empty-string token (-Name ''), not an
//     omitted flag: scripts distinguish "explicitly empty" from "absent".
//
// EncodeArgs performs no schema validation; type checking happens at the
// dispatcher boundary before arguments reach the encoder.
func EncodeArgs(args []Arg) string {
	var sb strings.Builder
	for _, a := range args {
		if a.Value == nil {
			continue
		}
		token, ok := encodeValue(a.Value)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('-')
		sb.WriteString(a.Name)
		if token != nil {
			sb.WriteByte(' ')
			sb.WriteString(*token)
		}
	}
	return sb.String()
}

// encodeValue returns the quoted value token for v, or nil for a bare switch
// flag. ok is false when the flag must be omitted entirely.
func encodeValue(v any) (token *string, ok bool) {
	switch val := v.(type) {
	case bool:
		if !val {
			return nil, false
		}
		return nil, true
	case []string:
		q := Quote(strings.Join(val, ","))
		return &q, true
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, formatScalar(e))
		}
		q := Quote(strings.Join(parts, ","))
		return &q, true
	default:
		q := Quote(formatScalar(v))
		return &q, true
	}
}

// formatScalar renders a scalar value as its PowerShell literal text.
func formatScalar(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		// JSON numbers arrive as float64; keep integers unexponentiated.
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Quote wraps s in single quotes with embedded single quotes doubled, which
// is PowerShell's literal-string escape. The result parses as exactly one
// token even when s is empty or contains whitespace or double quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
