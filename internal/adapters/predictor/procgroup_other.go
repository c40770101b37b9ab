//go:build !unix

package predictor

import "os/exec"

// killProcessGroup relies on WaitDelay alone where process groups are unavailable.
func killProcessGroup(*exec.Cmd) {}
