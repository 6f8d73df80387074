package diag

import (
	"fmt"
	"strings"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Script contract (list_processes.ps1): emits
//
//	{sort_by, count, processes: [{name, id, cpu_seconds, memory_mb}]}
func newProcessesTool(b *Bridge) tools.Tool {
	return &scriptTool{
		bridge: b,
		script: mustScript("list_processes.ps1"),
		def: tools.Definition{
			Name: "list_processes",
			Description: "List the top running processes by CPU time or working-set memory, " +
				"optionally filtered by name substring.",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"sort_by": {
						Type:        "string",
						Description: "Ranking criterion",
						Enum:        []any{"cpu", "memory"},
						Default:     "cpu",
					},
					"top": {
						Type:        "integer",
						Description: "How many processes to return",
						Default:     20,
					},
					"name_filter": {
						Type:        "string",
						Description: "Only include processes whose name contains this substring",
						Default:     "",
					},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{
				{Name: "SortBy", Value: stringParam(params, "sort_by")},
				{Name: "Top", Value: intParam(params, "top", 20)},
				{Name: "NameFilter", Value: stringParam(params, "name_filter")},
			}
		},
		format: formatProcesses,
	}
}

func formatProcesses(doc map[string]any) (string, error) {
	if err := powershell.RequireFields(doc, "count", "processes"); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Top processes by %s\n\n", docString(doc, "sort_by"))

	procs := docList(doc, "processes")
	if len(procs) == 0 {
		sb.WriteString("No processes matched.\n")
		return sb.String(), nil
	}

	sb.WriteString("| PID | Name | CPU (s) | Memory (MB) |\n")
	sb.WriteString("|-----|------|---------|-------------|\n")
	for _, p := range procs {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			docString(p, "id"),
			docString(p, "name"),
			docString(p, "cpu_seconds"),
			docString(p, "memory_mb"),
		)
	}
	return sb.String(), nil
}
