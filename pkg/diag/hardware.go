package diag

import (
	"fmt"
	"strings"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// Script contract (get_hardware_info.ps1): emits
//
//	{cpu: {name, cores, logical_processors, max_clock_mhz},
//	 memory: {total_gb, modules: [{slot, capacity_gb, speed_mt}]},
//	 temperatures?: [{sensor, celsius}]}
func newHardwareInfoTool(b *Bridge) tools.Tool {
	return &scriptTool{
		bridge: b,
		script: mustScript("get_hardware_info.ps1"),
		def: tools.Definition{
			Name: "get_hardware_info",
			Description: "Report CPU and memory hardware facts. Optionally reads " +
				"ACPI thermal-zone temperatures where the platform exposes them.",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"include_temperatures": {
						Type:        "boolean",
						Description: "Also read thermal-zone temperatures (may require elevation)",
						Default:     false,
					},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{
				{Name: "IncludeTemperatures", Value: boolParam(params, "include_temperatures")},
			}
		},
		format: formatHardwareInfo,
	}
}

func formatHardwareInfo(doc map[string]any) (string, error) {
	if err := powershell.RequireFields(doc, "cpu", "memory"); err != nil {
		return "", err
	}

	cpu := docMap(doc, "cpu")
	mem := docMap(doc, "memory")

	s := newSection("CPU")
	s.field("Model", docString(cpu, "name"))
	s.field("Cores", docString(cpu, "cores"))
	s.field("Logical processors", docString(cpu, "logical_processors"))
	s.field("Max clock (MHz)", docString(cpu, "max_clock_mhz"))

	var sb strings.Builder
	sb.WriteString(s.String())
	fmt.Fprintf(&sb, "\n## Memory\n- **Total (GB)**: %s\n", docString(mem, "total_gb"))
	for _, m := range docList(mem, "modules") {
		fmt.Fprintf(&sb, "- Slot %s: %s GB @ %s MT/s\n",
			docString(m, "slot"),
			docString(m, "capacity_gb"),
			docString(m, "speed_mt"),
		)
	}

	temps := docList(doc, "temperatures")
	if len(temps) > 0 {
		sb.WriteString("\n## Temperatures\n")
		for _, t := range temps {
			fmt.Fprintf(&sb, "- %s: %s °C\n", docString(t, "sensor"), docString(t, "celsius"))
		}
	}
	return sb.String(), nil
}
