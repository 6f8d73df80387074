package diag

import (
	"context"
	"time"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
)

// Bridge runs one script invocation end to end: encode arguments, spawn the
// interpreter, classify the outcome, decode the payload. All state is
// call-local, so one Bridge serves concurrent calls.
type Bridge struct {
	Interpreter string
	Runner      *powershell.Runner
	Timeout     time.Duration

	// BuildCommand assembles the final subprocess invocation. Defaults to
	// powershell.BuildCommand; tests substitute a POSIX-shell builder.
	BuildCommand func(interpreter, script, argFragment string) powershell.Command
}

// NewBridge wires a bridge for the given interpreter and per-call timeout.
func NewBridge(interpreter string, timeout time.Duration, runner *powershell.Runner) *Bridge {
	return &Bridge{
		Interpreter:  interpreter,
		Runner:       runner,
		Timeout:      timeout,
		BuildCommand: powershell.BuildCommand,
	}
}

// Invoke executes script with args and returns the decoded document.
// timeout overrides the bridge default when positive. Every failure comes
// back as a *powershell.BridgeError or *powershell.MalformedOutputError;
// the subprocess is always reaped before Invoke returns.
func (b *Bridge) Invoke(ctx context.Context, toolName, script string, args []powershell.Arg, timeout time.Duration) (map[string]any, error) {
	if timeout <= 0 {
		timeout = b.Timeout
	}

	fragment := powershell.EncodeArgs(args)
	cmd := b.BuildCommand(b.Interpreter, script, fragment)

	outcome := b.Runner.Run(ctx, cmd, timeout)
	if err := powershell.Classify(toolName, outcome); err != nil {
		return nil, err
	}

	doc, err := powershell.Decode(outcome.Stdout)
	if err != nil {
		return nil, &powershell.BridgeError{
			Kind: powershell.KindMalformedOutput,
			Tool: toolName,
			Err:  err,
		}
	}
	return doc, nil
}
