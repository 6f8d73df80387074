//go:build windows

package powershell

import (
	"os/exec"
	"strconv"
	"syscall"
)

// killProcessGroup starts the subprocess in its own process group and makes
// context cancellation terminate the whole tree, so helper processes a
// script spawned do not survive the call.
func killProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(c.Process.Pid)).Run()
	}
}
