//go:build linux

// Package process_linux implements process.System on top of /proc.
package process_linux

import (
	"fmt"

	"proctree/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// DefaultMount is where procfs is normally mounted
const DefaultMount = "/proc"

// LinuxSystem implements the process.System interface for Linux systems
type LinuxSystem struct {
	fs     procfs.FS
	mount  string
	signal unix.Signal
	log    *logger.Logger
}

// New creates a LinuxSystem reading the procfs mounted at mount.
// sig is delivered by terminate handles; Linux cannot impose an exit code on another process.
func New(mount string, sig unix.Signal) (*LinuxSystem, error) {
	if mount == "" {
		mount = DefaultMount
	}
	if sig == 0 {
		sig = unix.SIGKILL
	}

	fs, err := procfs.NewFS(mount)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize procfs: %w", err)
	}

	return &LinuxSystem{
		fs:     fs,
		mount:  mount,
		signal: sig,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procfs")),
	}, nil
}

// Reserved returns the swapper and init identifiers
func (s *LinuxSystem) Reserved() process.ReservedIDs {
	return process.UnixReserved
}

// Snapshot lists every pid directory of procfs.
// Processes that exit between the listing and reading their stat file are dropped.
func (s *LinuxSystem) Snapshot() ([]process.Entry, error) {
	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.mount, err)
	}

	out := make([]process.Entry, 0, len(procs))
	for _, p := range procs {
		stat, err := p.Stat()
		if err != nil {
			// Process may have terminated while we were reading
			continue
		}
		out = append(out, process.Entry{
			PID:  process.ProcessID(stat.PID),
			PPID: process.ProcessID(stat.PPID),
			Name: stat.Comm,
		})
	}

	return out, nil
}

// EnableDebugPrivilege succeeds only when running as root; the privilege cannot be acquired later.
func (s *LinuxSystem) EnableDebugPrivilege() error {
	if euid := unix.Geteuid(); euid != 0 {
		return fmt.Errorf("euid %d: %w", euid, process.ErrPrivilegeUnavailable)
	}
	return nil
}
