// Package process provides the types and capability interfaces shared by the
// snapshot ingestor, the process tree and the platform adapters.
package process

import "errors"

var (
	// ErrNotFound is returned when a pid or image name is not present in the snapshot.
	ErrNotFound = errors.New("process not found")

	// ErrNoParent is returned when a record has no validated parent in the snapshot.
	ErrNoParent = errors.New("process has no parent")

	// ErrReserved is returned when an operation targets the idle or system process.
	ErrReserved = errors.New("reserved process identifier")

	// ErrInvalidArgument is returned for nil callbacks and empty names.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAborted is returned when a visitor stops a traversal.
	ErrAborted = errors.New("traversal aborted")

	// ErrSnapshotUnavailable is returned when the snapshot source cannot enumerate processes.
	ErrSnapshotUnavailable = errors.New("process snapshot unavailable")

	// ErrPrivilegeUnavailable is returned when the elevated privilege cannot be enabled.
	ErrPrivilegeUnavailable = errors.New("privilege unavailable")
)
