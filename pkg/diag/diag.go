// Package diag is the fixed catalog of diagnostic tools. Each tool binds an
// input schema to an embedded PowerShell script and a markdown formatter;
// execution goes through the powershell bridge.
package diag

import (
	"embed"
	"fmt"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

//go:embed scripts/*.ps1
var scriptFS embed.FS

// mustScript loads an embedded script body by filename. The catalog is
// fixed, so a missing script is a packaging error caught at startup.
func mustScript(name string) string {
	b, err := scriptFS.ReadFile("scripts/" + name)
	if err != nil {
		panic(fmt.Sprintf("diag: embedded script %s: %v", name, err))
	}
	return string(b)
}

// RegisterAll adds every diagnostic tool to reg, wired to b.
func RegisterAll(reg *tools.Registry, b *Bridge) {
	reg.Register(newEventLogsTool(b))
	reg.Register(newSystemInfoTool(b))
	reg.Register(newProcessesTool(b))
	reg.Register(newDiskHealthTool(b))
	reg.Register(newHardwareInfoTool(b))
	reg.Register(newStartupItemsTool(b))
}
