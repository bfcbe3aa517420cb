// Package process stops browser process trees left behind by the cover
// renderer.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID rejects PIDs that would signal this process's own group
// or init.
var ErrInvalidPID = errors.New("invalid pid")

func checkPID(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return nil
}
