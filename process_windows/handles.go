//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"proctree/process"

	"golang.org/x/sys/windows"
)

// OpenQuery opens pid with PROCESS_QUERY_LIMITED_INFORMATION
func (s *WindowsSystem) OpenQuery(pid process.ProcessID) (process.QueryHandle, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess failed: %w", err)
	}
	return &queryHandle{handle: h}, nil
}

type queryHandle struct {
	handle windows.Handle
}

func (h *queryHandle) ImagePath() (string, error) {
	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h.handle, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName failed: %w", err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (h *queryHandle) CreationTime() (time.Time, error) {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(h.handle, &creation, &exit, &kernel, &user); err != nil {
		return time.Time{}, fmt.Errorf("GetProcessTimes failed: %w", err)
	}
	return time.Unix(0, creation.Nanoseconds()), nil
}

// IsWow64 is only meaningful for a 64-bit build; a 32-bit build reports false.
func (h *queryHandle) IsWow64() (bool, error) {
	if strconv.IntSize != 64 {
		return false, nil
	}
	var wow64 bool
	if err := windows.IsWow64Process(h.handle, &wow64); err != nil {
		return false, fmt.Errorf("IsWow64Process failed: %w", err)
	}
	return wow64, nil
}

func (h *queryHandle) Close() error {
	return windows.CloseHandle(h.handle)
}

// OpenTerminate opens pid with PROCESS_TERMINATE
func (s *WindowsSystem) OpenTerminate(pid process.ProcessID) (process.TerminateHandle, error) {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess failed: %w", err)
	}
	return &terminateHandle{handle: h}, nil
}

type terminateHandle struct {
	handle windows.Handle
}

// Terminate is asynchronous: the process may still be running when it returns.
func (h *terminateHandle) Terminate(exitCode uint32) error {
	if err := windows.TerminateProcess(h.handle, exitCode); err != nil {
		return fmt.Errorf("TerminateProcess failed: %w", err)
	}
	return nil
}

func (h *terminateHandle) Close() error {
	return windows.CloseHandle(h.handle)
}

// WaitExit waits on a SYNCHRONIZE handle of pid.
// Returns true if the process exited within timeout or no longer exists.
func (s *WindowsSystem) WaitExit(pid process.ProcessID, timeout time.Duration) bool {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
		return true
	}
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	event, err := windows.WaitForSingleObject(h, uint32(timeout.Milliseconds()))
	return err == nil && event == windows.WAIT_OBJECT_0
}
