//go:build linux

package process_linux

import (
	"debug/elf"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"proctree/process"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// OpenQuery resolves pid in procfs. Metadata is read lazily by the handle.
func (s *LinuxSystem) OpenQuery(pid process.ProcessID) (process.QueryHandle, error) {
	p, err := s.fs.Proc(int(pid))
	if err != nil {
		return nil, fmt.Errorf("process with PID %d does not exist: %w", pid, err)
	}
	return &queryHandle{proc: p, exe: filepath.Join(s.mount, strconv.Itoa(int(pid)), "exe")}, nil
}

type queryHandle struct {
	proc procfs.Proc
	exe  string
}

func (h *queryHandle) ImagePath() (string, error) {
	return h.proc.Executable()
}

func (h *queryHandle) CreationTime() (time.Time, error) {
	stat, err := h.proc.Stat()
	if err != nil {
		return time.Time{}, err
	}
	start, err := stat.StartTime()
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(start)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), nil
}

// IsWow64 reports a 32-bit executable on a 64-bit build, the closest Linux
// analogue of WOW64. Kernel threads have no executable and report false.
func (h *queryHandle) IsWow64() (bool, error) {
	if strconv.IntSize != 64 {
		return false, nil
	}
	f, err := elf.Open(h.exe)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	return f.Class == elf.ELFCLASS32, nil
}

func (h *queryHandle) Close() error {
	return nil
}

// OpenTerminate pins pid with a pidfd so the signal cannot reach a recycled identifier
// once the handle is open. Kernels without pidfd_open fall back to kill(2).
func (s *LinuxSystem) OpenTerminate(pid process.ProcessID) (process.TerminateHandle, error) {
	fd, err := unix.PidfdOpen(int(pid), 0)
	if errors.Is(err, unix.ENOSYS) {
		return &killHandle{pid: int(pid), signal: s.signal}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pidfd_open %d: %w", pid, err)
	}
	return &pidfdHandle{fd: fd, signal: s.signal}, nil
}

type pidfdHandle struct {
	fd     int
	signal unix.Signal
}

// Terminate delivers the configured signal. The exit code cannot be chosen on Linux.
func (h *pidfdHandle) Terminate(exitCode uint32) error {
	err := unix.PidfdSendSignal(h.fd, h.signal, nil, 0)
	// ESRCH means it's already gone
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func (h *pidfdHandle) Close() error {
	return unix.Close(h.fd)
}

type killHandle struct {
	pid    int
	signal unix.Signal
}

func (h *killHandle) Terminate(exitCode uint32) error {
	err := unix.Kill(h.pid, h.signal)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func (h *killHandle) Close() error {
	return nil
}
