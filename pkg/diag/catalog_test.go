package diag_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/diag"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

func TestRegisterAll_Catalog(t *testing.T) {
	reg := tools.NewRegistry()
	diag.RegisterAll(reg, diag.NewBridge("pwsh", time.Minute, powershell.NewRunner(nil)))

	want := []string{
		"check_disk_health",
		"get_event_logs",
		"get_hardware_info",
		"get_system_info",
		"list_processes",
		"scan_startup_items",
	}
	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("catalog = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("catalog[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegisterAll_SchemasWellFormed(t *testing.T) {
	reg := tools.NewRegistry()
	diag.RegisterAll(reg, diag.NewBridge("pwsh", time.Minute, powershell.NewRunner(nil)))

	for _, tool := range reg.All() {
		def := tool.Definition()
		if def.Description == "" {
			t.Errorf("tool %s has no description", def.Name)
		}
		var schema map[string]any
		if err := json.Unmarshal(def.InputSchema, &schema); err != nil {
			t.Errorf("tool %s schema invalid: %v", def.Name, err)
			continue
		}
		if schema["type"] != "object" {
			t.Errorf("tool %s schema type = %v", def.Name, schema["type"])
		}
		// Every declared parameter either has a default or is not required:
		// the dispatcher fills defaults before the handler runs.
		if _, err := tools.ValidateAndCoerce(def, nil); err != nil {
			t.Errorf("tool %s rejects empty arguments: %v", def.Name, err)
		}
	}
}
