//go:build linux

package process_linux

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"proctree/process"

	"golang.org/x/sys/unix"
)

// WaitExit waits until pid disappears from procfs or until timeout.
// Returns true if the process exited within the timeout.
func (s *LinuxSystem) WaitExit(pid process.ProcessID, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	tick := 25 * time.Millisecond
	for {
		if !s.exists(int(pid)) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(tick)
		// Exponential-ish backoff up to 250ms to reduce pressure on /proc
		if tick < 250*time.Millisecond {
			tick += 10 * time.Millisecond
		}
	}
}

func (s *LinuxSystem) exists(pid int) bool {
	// Fast path: stat /proc/<pid>
	_, err := os.Stat(filepath.Join(s.mount, strconv.Itoa(pid)))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return unix.Kill(pid, 0) == nil
}
