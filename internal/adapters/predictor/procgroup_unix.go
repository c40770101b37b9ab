//go:build unix

package predictor

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the model in its own process group and makes
// context cancellation kill every member of it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
