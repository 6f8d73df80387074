package diag

import (
	"fmt"
	"strings"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Script contract (get_system_info.ps1): emits
//
//	{hostname, os, version, build, architecture, last_boot, uptime_hours,
//	 memory_total_gb, hotfixes?: [{id, installed_on}]}
func newSystemInfoTool(b *Bridge) tools.Tool {
	return &scriptTool{
		bridge: b,
		script: mustScript("get_system_info.ps1"),
		def: tools.Definition{
			Name: "get_system_info",
			Description: "Summarize the operating system: version, build, architecture, " +
				"uptime, and total memory. Optionally lists installed hotfixes.",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"include_hotfixes": {
						Type:        "boolean",
						Description: "Also list installed hotfixes (slower)",
						Default:     false,
					},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{
				{Name: "IncludeHotfixes", Value: boolParam(params, "include_hotfixes")},
			}
		},
		format: formatSystemInfo,
	}
}

func formatSystemInfo(doc map[string]any) (string, error) {
	if err := powershell.RequireFields(doc, "hostname", "os"); err != nil {
		return "", err
	}

	s := newSection("System")
	s.field("Hostname", docString(doc, "hostname"))
	s.field("OS", docString(doc, "os"))
	s.field("Version", docString(doc, "version"))
	s.field("Build", docString(doc, "build"))
	s.field("Architecture", docString(doc, "architecture"))
	s.field("Last boot", docString(doc, "last_boot"))
	s.field("Uptime (hours)", docString(doc, "uptime_hours"))
	s.field("Memory total (GB)", docString(doc, "memory_total_gb"))

	hotfixes := docList(doc, "hotfixes")
	if len(hotfixes) == 0 {
		return s.String(), nil
	}

	var sb strings.Builder
	sb.WriteString(s.String())
	fmt.Fprintf(&sb, "\n## Hotfixes (%d)\n", len(hotfixes))
	for _, h := range hotfixes {
		fmt.Fprintf(&sb, "- %s (installed %s)\n",
			docString(h, "id"), docString(h, "installed_on"))
	}
	return sb.String(), nil
}
