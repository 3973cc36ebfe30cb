//go:build windows

// Package process_windows implements process.System with the toolhelp snapshot
// and process handles.
package process_windows

import (
	"errors"
	"fmt"
	"unsafe"

	"proctree/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// WindowsSystem implements the process.System interface for Windows systems
type WindowsSystem struct {
	log *logger.Logger
}

// New creates a new WindowsSystem instance
func New() *WindowsSystem {
	return &WindowsSystem{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "toolhelp")),
	}
}

// Reserved returns the System Idle Process and System identifiers
func (s *WindowsSystem) Reserved() process.ReservedIDs {
	return process.WindowsReserved
}

// Snapshot walks a TH32CS_SNAPPROCESS toolhelp snapshot
func (s *WindowsSystem) Snapshot() ([]process.Entry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot failed: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, fmt.Errorf("Process32First failed: %w", err)
	}

	var out []process.Entry
	for {
		out = append(out, process.Entry{
			PID:  process.ProcessID(entry.ProcessID),
			PPID: process.ProcessID(entry.ParentProcessID),
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		})

		if err := windows.Process32Next(snap, &entry); err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			s.log.Warn("Process32Next failed, snapshot truncated: ", err)
			break
		}
	}

	return out, nil
}

// EnableDebugPrivilege grants SeDebugPrivilege to the current process token so
// protected processes can be opened.
func (s *WindowsSystem) EnableDebugPrivilege() error {
	var token windows.Token
	err := windows.OpenProcessToken(windows.CurrentProcess(),
		windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token)
	if err != nil {
		return fmt.Errorf("OpenProcessToken failed: %w: %w", process.ErrPrivilegeUnavailable, err)
	}
	defer token.Close()

	name, err := windows.UTF16PtrFromString("SeDebugPrivilege")
	if err != nil {
		return err
	}

	var luid windows.LUID
	if err := windows.LookupPrivilegeValue(nil, name, &luid); err != nil {
		return fmt.Errorf("LookupPrivilegeValue failed: %w: %w", process.ErrPrivilegeUnavailable, err)
	}

	privileges := windows.Tokenprivileges{PrivilegeCount: 1}
	privileges.Privileges[0] = windows.LUIDAndAttributes{
		Luid:       luid,
		Attributes: windows.SE_PRIVILEGE_ENABLED,
	}

	// An account without the privilege still succeeds here; the later open fails instead.
	if err := windows.AdjustTokenPrivileges(token, false, &privileges, 0, nil, nil); err != nil {
		return fmt.Errorf("AdjustTokenPrivileges failed: %w: %w", process.ErrPrivilegeUnavailable, err)
	}

	return nil
}
