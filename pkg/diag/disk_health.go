package diag

import (
	"fmt"
	"strings"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Script contract (check_disk_health.ps1): emits
//
//	{volumes: [{letter, label, filesystem, size_gb, free_gb, percent_free}],
//	 smart?: [{model, status}]}
func newDiskHealthTool(b *Bridge) tools.Tool {
	return &scriptTool{
		bridge: b,
		script: mustScript("check_disk_health.ps1"),
		def: tools.Definition{
			Name: "check_disk_health",
			Description: "Report capacity and free space for each fixed volume. " +
				"Optionally includes the SMART predictive-failure status of each physical disk.",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"drive_letter": {
						Type:        "string",
						Description: "Restrict to one drive letter (e.g. \"C\"). Empty means all fixed volumes.",
						Default:     "",
					},
					"include_smart": {
						Type:        "boolean",
						Description: "Also query SMART status of physical disks",
						Default:     false,
					},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{
				{Name: "DriveLetter", Value: stringParam(params, "drive_letter")},
				{Name: "IncludeSmart", Value: boolParam(params, "include_smart")},
			}
		},
		format: formatDiskHealth,
	}
}

func formatDiskHealth(doc map[string]any) (string, error) {
	if err := powershell.RequireFields(doc, "volumes"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Disk health\n\n")

	volumes := docList(doc, "volumes")
	if len(volumes) == 0 {
		sb.WriteString("No fixed volumes found.\n")
	} else {
		sb.WriteString("| Drive | Label | FS | Size (GB) | Free (GB) | Free % |\n")
		sb.WriteString("|-------|-------|----|-----------|-----------|--------|\n")
		for _, v := range volumes {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				docString(v, "letter"),
				docString(v, "label"),
				docString(v, "filesystem"),
				docString(v, "size_gb"),
				docString(v, "free_gb"),
				docString(v, "percent_free"),
			)
		}
	}

	smart := docList(doc, "smart")
	if len(smart) > 0 {
		sb.WriteString("\n## SMART status\n")
		for _, d := range smart {
			fmt.Fprintf(&sb, "- %s: %s\n", docString(d, "model"), docString(d, "status"))
		}
	}
	return sb.String(), nil
}
