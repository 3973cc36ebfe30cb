// Package processtest provides an in-memory process.System for tests.
package processtest

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"proctree/process"
)

var ErrDenied = errors.New("access denied")

// Proc describes one fake running process
type Proc struct {
	PID     process.ProcessID
	PPID    process.ProcessID
	Name    string
	Path    string
	Created time.Time
	Wow64   bool

	DenyQuery     bool // OpenQuery fails
	DenyTerminate bool // OpenTerminate fails until privilege is enabled
	Protected     bool // OpenTerminate fails even with privilege
	FailPath      bool
	FailTimes     bool
	FailWow64     bool
	FailTerminate bool
	FailClose     bool
}

// System is a fake process.System. Calls records every OS-level operation in order.
type System struct {
	Procs        []*Proc
	ReservedIDs  process.ReservedIDs
	SnapshotErr  error
	PrivilegeErr error

	Calls      []string
	Terminated []process.ProcessID
	OpenCount  int
	CloseCount int

	privileged bool
}

// New creates a fake system with Windows reserved identifiers
func New(procs ...*Proc) *System {
	return &System{Procs: procs, ReservedIDs: process.WindowsReserved}
}

func (s *System) find(pid process.ProcessID) *Proc {
	for _, p := range s.Procs {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

func (s *System) Reserved() process.ReservedIDs {
	return s.ReservedIDs
}

func (s *System) Snapshot() ([]process.Entry, error) {
	s.Calls = append(s.Calls, "snapshot")
	if s.SnapshotErr != nil {
		return nil, s.SnapshotErr
	}
	out := make([]process.Entry, 0, len(s.Procs))
	for _, p := range s.Procs {
		out = append(out, process.Entry{PID: p.PID, PPID: p.PPID, Name: p.Name})
	}
	return out, nil
}

func (s *System) EnableDebugPrivilege() error {
	s.Calls = append(s.Calls, "privilege")
	if s.PrivilegeErr != nil {
		return s.PrivilegeErr
	}
	s.privileged = true
	return nil
}

func (s *System) OpenQuery(pid process.ProcessID) (process.QueryHandle, error) {
	s.Calls = append(s.Calls, fmt.Sprintf("open-query:%d", pid))
	p := s.find(pid)
	if p == nil || p.DenyQuery {
		return nil, ErrDenied
	}
	s.OpenCount++
	return &queryHandle{sys: s, proc: p}, nil
}

func (s *System) OpenTerminate(pid process.ProcessID) (process.TerminateHandle, error) {
	s.Calls = append(s.Calls, fmt.Sprintf("open-terminate:%d", pid))
	p := s.find(pid)
	if p == nil || p.Protected || (p.DenyTerminate && !s.privileged) {
		return nil, ErrDenied
	}
	s.OpenCount++
	return &terminateHandle{sys: s, proc: p}, nil
}

type queryHandle struct {
	sys  *System
	proc *Proc
}

func (h *queryHandle) ImagePath() (string, error) {
	if h.proc.FailPath {
		return "", ErrDenied
	}
	return h.proc.Path, nil
}

func (h *queryHandle) CreationTime() (time.Time, error) {
	if h.proc.FailTimes {
		return time.Time{}, ErrDenied
	}
	return h.proc.Created, nil
}

func (h *queryHandle) IsWow64() (bool, error) {
	if h.proc.FailWow64 {
		return false, ErrDenied
	}
	return h.proc.Wow64, nil
}

func (h *queryHandle) Close() error {
	h.sys.CloseCount++
	return nil
}

type terminateHandle struct {
	sys  *System
	proc *Proc
}

func (h *terminateHandle) Terminate(exitCode uint32) error {
	h.sys.Calls = append(h.sys.Calls, fmt.Sprintf("terminate:%d", h.proc.PID))
	if h.proc.FailTerminate {
		return ErrDenied
	}
	h.sys.Terminated = append(h.sys.Terminated, h.proc.PID)
	return nil
}

func (h *terminateHandle) Close() error {
	h.sys.CloseCount++
	if h.proc.FailClose {
		return errors.New("close failed")
	}
	return nil
}

// WaitExit reports whether pid was terminated through this fake
func (s *System) WaitExit(pid process.ProcessID, timeout time.Duration) bool {
	s.Calls = append(s.Calls, fmt.Sprintf("wait:%d", pid))
	return slices.Contains(s.Terminated, pid)
}
