//go:build windows

package process

import "os/exec"

const (
	shellExecutable = "cmd"
	shellFlag       = "/C"
)

func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}
