package diag

import (
	"fmt"
	"strings"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Script contract (get_event_logs.ps1): emits
//
//	{log, hours_back, count, events: [{time, level, provider, id, message}]}
//
// Levels and Providers are passed comma-joined and split on the same comma
// by the script.
func newEventLogsTool(b *Bridge) tools.Tool {
	return &scriptTool{
		bridge: b,
		script: mustScript("get_event_logs.ps1"),
		def: tools.Definition{
			Name: "get_event_logs",
			Description: "Query a Windows event log for recent entries. " +
				"Filters by level, provider, and time window; returns the newest matches first.",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"log_name": {
						Type:        "string",
						Description: "Event log to query",
						Enum:        []any{"System", "Application", "Security", "Setup"},
						Default:     "System",
					},
					"max_events": {
						Type:        "integer",
						Description: "Maximum number of events to return",
						Default:     50,
					},
					"hours_back": {
						Type:        "integer",
						Description: "How many hours back to search",
						Default:     24,
					},
					"levels": {
						Type:        "array",
						Description: "Level names to include (e.g. Critical, Error, Warning). Empty means all levels.",
						Items:       &tools.Property{Type: "string"},
					},
					"providers": {
						Type:        "array",
						Description: "Provider (source) names to include. Empty means all providers.",
						Items:       &tools.Property{Type: "string"},
					},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{
				{Name: "LogName", Value: stringParam(params, "log_name")},
				{Name: "MaxEvents", Value: intParam(params, "max_events", 50)},
				{Name: "HoursBack", Value: intParam(params, "hours_back", 24)},
				{Name: "Levels", Value: listParam(params, "levels")},
				{Name: "Providers", Value: listParam(params, "providers")},
			}
		},
		format: formatEventLogs,
	}
}

func formatEventLogs(doc map[string]any) (string, error) {
	if err := powershell.RequireFields(doc, "log", "count", "events"); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Event log: %s\n", docString(doc, "log"))
	fmt.Fprintf(&sb, "%s matching events in the last %s hours\n\n",
		docString(doc, "count"), docString(doc, "hours_back"))

	events := docList(doc, "events")
	if len(events) == 0 {
		sb.WriteString("No events matched the filter.\n")
		return sb.String(), nil
	}

	for _, ev := range events {
		fmt.Fprintf(&sb, "- `%s` **%s** [%s/%s] %s\n",
			docString(ev, "time"),
			docString(ev, "level"),
			docString(ev, "provider"),
			docString(ev, "id"),
			firstLine(docString(ev, "message")),
		)
	}
	return sb.String(), nil
}

// firstLine trims an event message to its first line; full messages can run
// to kilobytes of stack trace.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i] + " …"
	}
	return s
}
