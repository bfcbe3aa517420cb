//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its descendants.
func KillTree(pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- numeric pid
}
