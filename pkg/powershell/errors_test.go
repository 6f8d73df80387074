package powershell_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
)

func kindOf(t *testing.T, err error) powershell.Kind {
	t.Helper()
	var berr *powershell.BridgeError
	if !errors.As(err, &berr) {
		t.Fatalf("want *BridgeError, got %T: %v", err, err)
	}
	return berr.Kind
}

func TestClassify_CleanExit(t *testing.T) {
	if err := powershell.Classify("t", powershell.Outcome{ExitCode: 0}); err != nil {
		t.Errorf("clean exit classified as %v", err)
	}
}

func TestClassify_SpawnFailure(t *testing.T) {
	err := powershell.Classify("get_system_info", powershell.Outcome{
		ExitCode: -1,
		SpawnErr: errors.New("no such file"),
	})
	if kindOf(t, err) != powershell.KindSpawnFailure {
		t.Fatalf("kind = %v", err)
	}
	// Spawn failures carry the environment hint the caller needs.
	msg := err.Error()
	if !strings.Contains(msg, "get_system_info") || !strings.Contains(msg, "PATH") {
		t.Errorf("message = %q", msg)
	}
}

func TestClassify_Timeout(t *testing.T) {
	err := powershell.Classify("t", powershell.Outcome{TimedOut: true, Elapsed: 30 * time.Second})
	if kindOf(t, err) != powershell.KindTimeout {
		t.Fatalf("kind = %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClassify_NonZeroExit(t *testing.T) {
	err := powershell.Classify("t", powershell.Outcome{
		ExitCode: 2,
		Stderr:   []byte("Get-WinEvent : Attempted to perform an unauthorized operation.\n"),
	})
	if kindOf(t, err) != powershell.KindNonZeroExit {
		t.Fatalf("kind = %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "exit code 2") || !strings.Contains(msg, "unauthorized") {
		t.Errorf("message = %q", msg)
	}
}

func TestClassify_StderrBounded(t *testing.T) {
	err := powershell.Classify("t", powershell.Outcome{
		ExitCode: 1,
		Stderr:   []byte(strings.Repeat("e", 100_000)),
	})
	if len(err.Error()) > 4096 {
		t.Errorf("error text not bounded: %d bytes", len(err.Error()))
	}
}

func TestKindString(t *testing.T) {
	cases := map[powershell.Kind]string{
		powershell.KindSpawnFailure:    "spawn_failure",
		powershell.KindTimeout:         "timeout",
		powershell.KindNonZeroExit:     "nonzero_exit",
		powershell.KindMalformedOutput: "malformed_output",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
