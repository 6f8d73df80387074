package diag

import (
	"context"
	"time"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

// scriptTool is the shared Tool implementation every catalog entry uses:
// a descriptor, a script, a stable-ordered argument builder, and a
// formatter for the decoded document.
type scriptTool struct {
	def     tools.Definition
	script  string
	bridge  *Bridge
	timeout time.Duration // 0 = bridge default

	// buildArgs maps validated parameters to the script's flag order.
	buildArgs func(params map[string]any) []powershell.Arg
	// format renders the decoded document as markdown. It must verify the
	// fields it reads (RequireFields) rather than trust the script.
	format func(doc map[string]any) (string, error)
}

func (t *scriptTool) Definition() tools.Definition { return t.def }

func (t *scriptTool) Execute(ctx context.Context, _ string, params map[string]any) (tools.Result, error) {
	doc, err := t.bridge.Invoke(ctx, t.def.Name, t.script, t.buildArgs(params), t.timeout)
	if err != nil {
		return tools.Result{}, err
	}
	text, err := t.format(doc)
	if err != nil {
		return tools.Result{}, &powershell.BridgeError{
			Kind: powershell.KindMalformedOutput,
			Tool: t.def.Name,
			Err:  err,
		}
	}
	return tools.TextResult(text), nil
}
