//go:build !windows

package powershell_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestRunner_TimeoutKillsHelperProcesses(t *testing.T) {
	// The script backgrounds a helper that inherits the output pipes. Timeout
	// must kill the whole process group and return promptly, not block until
	// the helper lets go of stdout, and the helper must not outlive the call.
	pidFile := filepath.Join(t.TempDir(), "helper.pid")
	script := fmt.Sprintf(`sleep 30 & echo $! > %s; wait`, pidFile)

	start := time.Now()
	o := runSh(t, script, 300*time.Millisecond)
	elapsed := time.Since(start)

	if !o.TimedOut {
		t.Fatalf("expected timeout, got %+v", o)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("run blocked on helper process: took %s", elapsed)
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("helper pid not recorded: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("helper pid %q: %v", data, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for syscall.Kill(pid, 0) == nil {
		if time.Now().After(deadline) {
			t.Fatalf("helper process %d survived the group kill", pid)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
