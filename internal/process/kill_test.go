package process

// Notes:
// - Real kills are covered by the cover renderer's integration tests.

import (
	"errors"
	"testing"
)

func TestKillTree_RejectsReservedPIDs(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{-5, 0, 1} {
		if err := KillTree(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillTree(%d) error = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillTree_UnknownPID(t *testing.T) {
	t.Parallel()

	if err := KillTree(999999999); err == nil {
		t.Error("KillTree(999999999) should fail for a process that does not exist")
	}
}
