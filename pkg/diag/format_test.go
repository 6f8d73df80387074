package diag

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
)

// decodeDoc parses canned script output the way the bridge would, so
// formatter tests see the same json.Number/[]any shapes as production.
func decodeDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	doc, err := powershell.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func TestFormatEventLogs(t *testing.T) {
	doc := decodeDoc(t, `{
		"log": "System", "hours_back": 24, "count": 2,
		"events": [
			{"time":"2026-08-26T10:00:00","level":"Error","provider":"disk","id":153,"message":"The IO operation was retried.\nMore detail."},
			{"time":"2026-08-26T09:00:00","level":"Warning","provider":"Kernel-Power","id":37,"message":"Processor speed limited."}
		]
	}`)
	out, err := formatEventLogs(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"System", "Error", "disk", "153", "The IO operation was retried."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Multi-line messages are collapsed to their first line.
	if strings.Contains(out, "More detail") {
		t.Errorf("message not trimmed to first line:\n%s", out)
	}
}

func TestFormatEventLogs_Empty(t *testing.T) {
	doc := decodeDoc(t, `{"log":"Setup","hours_back":1,"count":0,"events":[]}`)
	out, err := formatEventLogs(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(out, "No events") {
		t.Errorf("empty result not reported:\n%s", out)
	}
}

func TestFormatEventLogs_MissingFields(t *testing.T) {
	_, err := formatEventLogs(map[string]any{"log": "System"})
	var merr *powershell.MalformedOutputError
	if !errors.As(err, &merr) {
		t.Fatalf("want malformed-output error, got %v", err)
	}
}

func TestFormatSystemInfo(t *testing.T) {
	doc := decodeDoc(t, `{
		"hostname":"WS-042","os":"Microsoft Windows 11 Pro","version":"10.0.26100",
		"build":"26100","architecture":"64-bit","last_boot":"2026-08-25T08:00:00",
		"uptime_hours":26.5,"memory_total_gb":32,
		"hotfixes":[{"id":"KB5041585","installed_on":"2026-08-14"}]
	}`)
	out, err := formatSystemInfo(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"WS-042", "Windows 11", "26.5", "KB5041585"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatProcesses(t *testing.T) {
	doc := decodeDoc(t, `{
		"sort_by":"memory","count":2,
		"processes":[
			{"name":"chrome","id":4312,"cpu_seconds":812.4,"memory_mb":1843.2},
			{"name":"svchost","id":1180,"cpu_seconds":44.1,"memory_mb":312.0}
		]
	}`)
	out, err := formatProcesses(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(out, "| 4312 | chrome |") {
		t.Errorf("table row missing:\n%s", out)
	}
}

func TestFormatDiskHealth(t *testing.T) {
	doc := decodeDoc(t, `{
		"volumes":[{"letter":"C:","label":"OS","filesystem":"NTFS","size_gb":930.1,"free_gb":124.5,"percent_free":13.4}],
		"smart":[{"model":"Samsung SSD 990 PRO","status":"Healthy"}]
	}`)
	out, err := formatDiskHealth(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"C:", "NTFS", "13.4", "Samsung SSD 990 PRO", "Healthy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatHardwareInfo(t *testing.T) {
	doc := decodeDoc(t, `{
		"cpu":{"name":"AMD Ryzen 9 7950X","cores":16,"logical_processors":32,"max_clock_mhz":4500},
		"memory":{"total_gb":64,"modules":[{"slot":"DIMM_A1","capacity_gb":32,"speed_mt":6000}]},
		"temperatures":[{"sensor":"TZ00","celsius":52.3}]
	}`)
	out, err := formatHardwareInfo(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"Ryzen", "DIMM_A1", "52.3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatHardwareInfo_MissingCPU(t *testing.T) {
	_, err := formatHardwareInfo(map[string]any{"memory": map[string]any{}})
	if err == nil {
		t.Fatal("want error for document missing cpu")
	}
}

func TestFormatStartupItems(t *testing.T) {
	doc := decodeDoc(t, `{
		"run_keys":[{"hive":"HKLM","name":"SecurityHealth","command":"C:\\Windows\\system32\\SecurityHealthSystray.exe"}],
		"startup_folder":[],
		"services":[{"name":"Spooler","start_mode":"Auto","state":"Running"}]
	}`)
	out, err := formatStartupItems(doc)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"HKLM", "SecurityHealth", "Spooler"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDocString_Number(t *testing.T) {
	doc := map[string]any{"n": json.Number("42"), "s": "x", "b": true}
	if docString(doc, "n") != "42" || docString(doc, "s") != "x" || docString(doc, "b") != "true" {
		t.Errorf("docString: %q %q %q", docString(doc, "n"), docString(doc, "s"), docString(doc, "b"))
	}
	if docString(doc, "missing") != "" {
		t.Errorf("missing key should be empty")
	}
}
