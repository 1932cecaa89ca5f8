//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

const (
	shellExecutable = "bash"
	shellFlag       = "-c"
)

// setProcessGroup makes the child the leader of its own process group so
// the whole group can be killed atomically.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	// Negative pid addresses the whole group.
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		cmd.Process.Kill()
	}
}
