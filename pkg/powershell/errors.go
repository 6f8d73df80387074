package powershell

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies the failure modes of one script invocation. Keeping the
// kinds distinct lets the dispatcher produce actionable error text: the
// calling agent has no other way to tell a missing interpreter from a hung
// script from a script that rejected its arguments.
type Kind int

const (
	// KindSpawnFailure: the interpreter could not be started at all.
	KindSpawnFailure Kind = iota
	// KindTimeout: the subprocess exceeded its allotted duration and was
	// killed.
	KindTimeout
	// KindNonZeroExit: the script ran and reported failure; stderr is the
	// actionable detail.
	KindNonZeroExit
	// KindMalformedOutput: the script exited 0 but stdout was not a valid
	// structured document.
	KindMalformedOutput
)

func (k Kind) String() string {
	switch k {
	case KindSpawnFailure:
		return "spawn_failure"
	case KindTimeout:
		return "timeout"
	case KindNonZeroExit:
		return "nonzero_exit"
	case KindMalformedOutput:
		return "malformed_output"
	default:
		return "unknown"
	}
}

// BridgeError is the typed failure of one bridge invocation.
type BridgeError struct {
	Kind   Kind
	Tool   string
	Detail string // bounded stderr text, exit code, or elapsed duration
	Err    error
}

// stderrLimit bounds how much script stderr is surfaced verbatim.
const stderrLimit = 2048

func (e *BridgeError) Error() string {
	switch e.Kind {
	case KindSpawnFailure:
		return fmt.Sprintf("tool %s: the PowerShell interpreter could not be started (%v); check that PowerShell is installed and on PATH", e.Tool, e.Err)
	case KindTimeout:
		return fmt.Sprintf("tool %s: script timed out after %s and was terminated", e.Tool, e.Detail)
	case KindNonZeroExit:
		return fmt.Sprintf("tool %s: script failed (%s)", e.Tool, e.Detail)
	case KindMalformedOutput:
		return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
	default:
		return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
	}
}

func (e *BridgeError) Unwrap() error { return e.Err }

// Classify maps an Outcome to its error kind, or nil for a clean exit whose
// stdout may be decoded. Non-zero exits never have their stdout parsed; the
// diagnostic payload is stderr plus the exit code.
func Classify(tool string, o Outcome) error {
	switch {
	case o.SpawnErr != nil:
		return &BridgeError{Kind: KindSpawnFailure, Tool: tool, Err: o.SpawnErr}
	case o.TimedOut:
		return &BridgeError{Kind: KindTimeout, Tool: tool, Detail: o.Elapsed.Round(100 * time.Millisecond).String()}
	case o.ExitCode != 0:
		detail := fmt.Sprintf("exit code %d", o.ExitCode)
		if msg := boundedStderr(o.Stderr); msg != "" {
			detail += ": " + msg
		}
		return &BridgeError{Kind: KindNonZeroExit, Tool: tool, Detail: detail}
	default:
		return nil
	}
}

// boundedStderr trims and caps stderr text for inclusion in error messages.
func boundedStderr(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > stderrLimit {
		s = s[:stderrLimit] + "… [truncated]"
	}
	return s
}
