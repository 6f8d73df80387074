//go:build !windows

package powershell

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the subprocess as its own process group leader and
// makes context cancellation kill the whole group, so helper processes a
// script spawned do not survive the call.
func killProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
	}
}
