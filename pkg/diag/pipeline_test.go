package diag

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/mcp"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// newShTool builds a catalog-style tool whose script runs under sh, driving
// the full dispatch → encode → spawn → decode → format pipeline without a
// PowerShell install.
func newShTool(name, script string) (tools.Tool, *Bridge) {
	b := NewBridge("sh", 5*time.Second, powershell.NewRunner(nil))
	b.BuildCommand = func(interpreter, body, _ string) powershell.Command {
		return powershell.Command{Path: interpreter, Args: []string{"-c", body}}
	}
	tool := &scriptTool{
		bridge: b,
		script: script,
		def: tools.Definition{
			Name:        name,
			Description: "test tool",
			InputSchema: tools.MustSchema(tools.SimpleSchema{
				Properties: map[string]tools.Property{
					"count": {Type: "integer", Default: 3},
				},
			}),
		},
		buildArgs: func(params map[string]any) []powershell.Arg {
			return []powershell.Arg{{Name: "Count", Value: intParam(params, "count", 3)}}
		},
		format: func(doc map[string]any) (string, error) {
			if err := powershell.RequireFields(doc, "items"); err != nil {
				return "", err
			}
			items := doc["items"].([]any)
			parts := make([]string, 0, len(items))
			for _, it := range items {
				parts = append(parts, it.(string))
			}
			return strings.Join(parts, ", "), nil
		},
	}
	return tool, b
}

func callOnce(t *testing.T, srv *mcp.Server, req string) (mcp.CallToolResult, bool) {
	t.Helper()
	raw := srv.Handle(context.Background(), []byte(req))
	if raw == nil {
		t.Fatal("no response")
	}
	var resp struct {
		Result mcp.CallToolResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("response: %v\n%s", err, raw)
	}
	if resp.Error != nil {
		t.Fatalf("protocol error: %s", *resp.Error)
	}
	return resp.Result, resp.Result.IsError
}

func TestPipeline_SuccessScenario(t *testing.T) {
	tool, _ := newShTool("list_items", `echo '{"items":["a","b","c"]}'`)
	reg := tools.NewRegistry()
	reg.Register(tool)
	srv := mcp.NewServer(reg, "test", "0", nil)

	res, isErr := callOnce(t, srv,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_items","arguments":{"count":3}}}`)
	if isErr {
		t.Fatalf("error result: %+v", res)
	}
	if got := res.Content[0].Text; got != "a, b, c" {
		t.Errorf("text = %q", got)
	}
}

func TestPipeline_MalformedOutputThenHealthy(t *testing.T) {
	broken, _ := newShTool("broken_tool", `echo 'not json'`)
	healthy, _ := newShTool("healthy_tool", `echo '{"items":["x"]}'`)
	reg := tools.NewRegistry()
	reg.Register(broken)
	reg.Register(healthy)
	srv := mcp.NewServer(reg, "test", "0", nil)

	res, isErr := callOnce(t, srv,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"broken_tool","arguments":{}}}`)
	if !isErr {
		t.Fatal("malformed output must yield an error result")
	}
	text := res.Content[0].Text
	if !strings.Contains(text, "broken_tool") || !strings.Contains(text, "malformed") {
		t.Errorf("error text = %q", text)
	}

	// Failure containment: the next call to a healthy tool still succeeds.
	res, isErr = callOnce(t, srv,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"healthy_tool","arguments":{}}}`)
	if isErr {
		t.Fatalf("healthy call failed after malformed output: %+v", res)
	}
	if res.Content[0].Text != "x" {
		t.Errorf("text = %q", res.Content[0].Text)
	}
}

func TestPipeline_TimeoutReported(t *testing.T) {
	tool, b := newShTool("slow_tool", `sleep 30`)
	b.Timeout = 200 * time.Millisecond
	reg := tools.NewRegistry()
	reg.Register(tool)
	srv := mcp.NewServer(reg, "test", "0", nil)

	start := time.Now()
	res, isErr := callOnce(t, srv,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"slow_tool","arguments":{}}}`)
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout not enforced")
	}
	if !isErr || !strings.Contains(res.Content[0].Text, "timed out") {
		t.Errorf("result = %+v", res)
	}
}

func TestPipeline_SpawnFailureHint(t *testing.T) {
	tool, b := newShTool("env_tool", `echo '{}'`)
	b.Interpreter = "/nonexistent/pwsh"
	b.BuildCommand = powershell.BuildCommand
	reg := tools.NewRegistry()
	reg.Register(tool)
	srv := mcp.NewServer(reg, "test", "0", nil)

	res, isErr := callOnce(t, srv,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"env_tool","arguments":{}}}`)
	if !isErr {
		t.Fatal("spawn failure must yield an error result")
	}
	if !strings.Contains(res.Content[0].Text, "PATH") {
		t.Errorf("missing environment hint: %q", res.Content[0].Text)
	}
}
