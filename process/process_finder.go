package process

import "time"

// SnapshotSource enumerates every running process at call time, in no particular order
type SnapshotSource interface {
	// Snapshot returns one entry per running process
	Snapshot() ([]Entry, error)
}

// System bundles every platform capability used to build and act on a process tree
type System interface {
	SnapshotSource
	Controller

	// Reserved returns the idle and system identifiers of the platform
	Reserved() ReservedIDs
}

// Waiter is implemented by systems that can block until a process has exited
type Waiter interface {
	// WaitExit returns true if pid exited within timeout
	WaitExit(pid ProcessID, timeout time.Duration) bool
}
