package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document readers. Decoded documents hold json.Number for numerics and
// []any / map[string]any for structure; these helpers flatten that for the
// formatters.

func docString(doc map[string]any, key string) string {
	switch v := doc[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func docList(doc map[string]any, key string) []map[string]any {
	raw, _ := doc[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func docMap(doc map[string]any, key string) map[string]any {
	m, _ := doc[key].(map[string]any)
	return m
}

// section builds a markdown block: a heading followed by lines.
type section struct {
	sb strings.Builder
}

func newSection(heading string) *section {
	s := &section{}
	s.sb.WriteString("## " + heading + "\n")
	return s
}

func (s *section) linef(format string, args ...any) {
	fmt.Fprintf(&s.sb, format+"\n", args...)
}

func (s *section) field(name, value string) {
	if value == "" {
		value = "(unknown)"
	}
	s.linef("- **%s**: %s", name, value)
}

func (s *section) String() string { return s.sb.String() }
