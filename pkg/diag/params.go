package diag

import "encoding/json"

// Parameter accessors. Arguments have been validated, coerced, and
// defaulted by the dispatcher, but JSON decoding leaves numbers as float64
// (or json.Number) and lists as []any, so each accessor normalizes those.

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func intParam(params map[string]any, key string, fallback int) int {
	switch n := params[key].(type) {
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return fallback
}

func boolParam(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

// listParam returns the parameter as a list for the encoder, or nil when
// absent so the flag is omitted. A present-but-empty list stays empty;
// scripts distinguish "explicitly empty" from "not provided". Elements keep
// their decoded types; the encoder renders non-string scalars itself.
func listParam(params map[string]any, key string) any {
	v, ok := params[key]
	if !ok || v == nil {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		return list
	default:
		return nil
	}
}
