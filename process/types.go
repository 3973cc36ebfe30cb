package process

import "time"

// ProcessID represents a unique identifier for a process within one snapshot
type ProcessID uint32

// Entry is one raw tuple produced by a snapshot source
type Entry struct {
	PID  ProcessID // Process ID
	PPID ProcessID // Claimed parent Process ID
	Name string    // Short executable name
}

// Record is a normalized process observed in a snapshot
type Record struct {
	PID          ProcessID // Process ID
	PPID         ProcessID // Candidate parent, may point at a recycled identifier
	CreationTime time.Time // Only meaningful relative to other records of the same snapshot
	ImageName    string    // Short executable name
	FullPath     string    // Empty when the path could not be queried
	IsWow64      bool      // 32-bit process on a 64-bit host, false when unknown
	Killed       bool      // Set once a termination request succeeded
}

// ReservedIDs names the idle and system identifiers of a platform.
// Both are always tree roots and are never eligible for termination.
type ReservedIDs struct {
	Idle   ProcessID
	System ProcessID
}

// WindowsReserved are the idle and system identifiers on Windows.
var WindowsReserved = ReservedIDs{Idle: 0, System: 4}

// UnixReserved maps idle to the swapper (pid 0) and system to init (pid 1).
var UnixReserved = ReservedIDs{Idle: 0, System: 1}

// IsReserved reports whether pid is the idle or system identifier
func (r ReservedIDs) IsReserved(pid ProcessID) bool {
	return pid == r.Idle || pid == r.System
}
