package diag

import (
	"fmt"
	"strings"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Script contract (scan_startup_items.ps1): emits
//
//	{run_keys: [{hive, name, command}],
//	 startup_folder: [{name, path}],
//	 services?: [{name, start_mode, state}]}
func newStartupItemsTool(b *Bridge) tools.Tool {
	return &scriptTool{
		bridge: b,
		script: mustScript("scan_startup_items.ps1"),
		def: tools.Definition{
			Name: "scan_startup_items",
			Description: "Enumerate programs configured to start automatically: registry Run keys " +
				"(HKLM and HKCU) and startup-folder shortcuts. Optionally lists automatic services.",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"include_services": {
						Type:        "boolean",
						Description: "Also list services with automatic start mode",
						Default:     false,
					},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{
				{Name: "IncludeServices", Value: boolParam(params, "include_services")},
			}
		},
		format: formatStartupItems,
	}
}

func formatStartupItems(doc map[string]any) (string, error) {
	if err := powershell.RequireFields(doc, "run_keys", "startup_folder"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Startup items\n")

	runKeys := docList(doc, "run_keys")
	fmt.Fprintf(&sb, "\n## Registry Run keys (%d)\n", len(runKeys))
	for _, k := range runKeys {
		fmt.Fprintf(&sb, "- [%s] **%s**: `%s`\n",
			docString(k, "hive"), docString(k, "name"), docString(k, "command"))
	}

	folder := docList(doc, "startup_folder")
	fmt.Fprintf(&sb, "\n## Startup folder (%d)\n", len(folder))
	if len(folder) == 0 {
		sb.WriteString("(empty)\n")
	}
	for _, f := range folder {
		fmt.Fprintf(&sb, "- %s (`%s`)\n", docString(f, "name"), docString(f, "path"))
	}

	services := docList(doc, "services")
	if len(services) > 0 {
		fmt.Fprintf(&sb, "\n## Automatic services (%d)\n", len(services))
		for _, svc := range services {
			fmt.Fprintf(&sb, "- %s: %s (%s)\n",
				docString(svc, "name"),
				docString(svc, "state"),
				docString(svc, "start_mode"),
			)
		}
	}
	return sb.String(), nil
}
