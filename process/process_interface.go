package process

import "time"

// QueryHandle is an open process handle with the least rights needed to read metadata.
// Every query is best-effort and may fail independently of the others.
type QueryHandle interface {
	// ImagePath returns the fully-qualified executable path
	ImagePath() (string, error)

	// CreationTime returns the time the process was created
	CreationTime() (time.Time, error)

	// IsWow64 reports whether the process runs under 32-bit emulation
	IsWow64() (bool, error)

	// Close releases the handle
	Close() error
}

// TerminateHandle is an open process handle that is allowed to terminate the process.
type TerminateHandle interface {
	// Terminate requests termination with the given exit code. The request is asynchronous.
	Terminate(exitCode uint32) error

	// Close releases the handle. It does not wait for the process to exit.
	Close() error
}

// HandleOpener opens process handles with specific access rights
type HandleOpener interface {
	// OpenQuery opens pid for metadata queries
	OpenQuery(pid ProcessID) (QueryHandle, error)

	// OpenTerminate opens pid for termination
	OpenTerminate(pid ProcessID) (TerminateHandle, error)
}

// PrivilegeEscalator enables an elevated capability for the current process
type PrivilegeEscalator interface {
	// EnableDebugPrivilege returns nil when the privilege is held after the call
	EnableDebugPrivilege() error
}

// Controller is what the process tree needs to terminate processes
type Controller interface {
	HandleOpener
	PrivilegeEscalator
}
