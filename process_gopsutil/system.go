//go:build unix && !linux

// Package process_gopsutil implements process.System for the Unix platforms
// without a dedicated adapter, through gopsutil.
package process_gopsutil

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"proctree/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	gprocess "github.com/shirou/gopsutil/v4/process"
)

// System implements the process.System interface with gopsutil
type System struct {
	signal syscall.Signal
	log    *logger.Logger
}

// New creates a System delivering sig on terminate, SIGKILL when zero
func New(sig syscall.Signal) *System {
	if sig == 0 {
		sig = syscall.SIGKILL
	}
	return &System{
		signal: sig,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "gopsutil")),
	}
}

func (s *System) Reserved() process.ReservedIDs {
	return process.UnixReserved
}

func (s *System) Snapshot() ([]process.Entry, error) {
	procs, err := gprocess.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	out := make([]process.Entry, 0, len(procs))
	for _, p := range procs {
		ppid, err := p.Ppid()
		if err != nil {
			s.log.Debugln("ppid unavailable for", p.Pid, err)
			continue
		}
		name, err := p.Name()
		if err != nil {
			s.log.Debugln("name unavailable for", p.Pid, err)
			continue
		}
		out = append(out, process.Entry{
			PID:  process.ProcessID(p.Pid),
			PPID: process.ProcessID(ppid),
			Name: name,
		})
	}
	return out, nil
}

func (s *System) EnableDebugPrivilege() error {
	if euid := os.Geteuid(); euid != 0 {
		return fmt.Errorf("euid %d: %w", euid, process.ErrPrivilegeUnavailable)
	}
	return nil
}

func (s *System) OpenQuery(pid process.ProcessID) (process.QueryHandle, error) {
	p, err := gprocess.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("process with PID %d does not exist: %w", pid, err)
	}
	return &handle{proc: p, signal: s.signal}, nil
}

func (s *System) OpenTerminate(pid process.ProcessID) (process.TerminateHandle, error) {
	p, err := gprocess.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("process with PID %d does not exist: %w", pid, err)
	}
	return &handle{proc: p, signal: s.signal}, nil
}

// handle serves both query and terminate rights; gopsutil keeps no OS handle open.
type handle struct {
	proc   *gprocess.Process
	signal syscall.Signal
}

func (h *handle) ImagePath() (string, error) {
	return h.proc.Exe()
}

func (h *handle) CreationTime() (time.Time, error) {
	ms, err := h.proc.CreateTime()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (h *handle) IsWow64() (bool, error) {
	return false, nil
}

func (h *handle) Terminate(exitCode uint32) error {
	err := h.proc.SendSignal(h.signal)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

func (h *handle) Close() error {
	return nil
}

// WaitExit polls until pid is gone or timeout elapses
func (s *System) WaitExit(pid process.ProcessID, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		exists, err := gprocess.PidExists(int32(pid))
		if err == nil && !exists {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
}
