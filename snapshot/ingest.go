// Package snapshot normalizes a raw process enumeration into process records.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"proctree/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Ingestor turns the entries of a SnapshotSource into fully populated records.
type Ingestor struct {
	Source     process.SnapshotSource
	Opener     process.HandleOpener
	Privileges process.PrivilegeEscalator
	Reserved   process.ReservedIDs

	// EscalatePrivilege requests the elevated privilege once before the walk.
	EscalatePrivilege bool

	// Clock returns the snapshot capture instant. Defaults to time.Now.
	Clock func() time.Time

	Log *logger.Logger
}

// New creates an Ingestor backed by every capability of sys
func New(sys process.System, escalate bool) *Ingestor {
	return &Ingestor{
		Source:            sys,
		Opener:            sys,
		Privileges:        sys,
		Reserved:          sys.Reserved(),
		EscalatePrivilege: escalate,
	}
}

func (in *Ingestor) log() *logger.Logger {
	if in.Log == nil {
		in.Log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "snapshot"))
	}
	return in.Log
}

// Ingest takes a snapshot and returns one record per entry.
// Only a failing snapshot source is an error; every per-process query degrades to its default.
func (in *Ingestor) Ingest() ([]*process.Record, error) {
	if in.Source == nil {
		return nil, fmt.Errorf("snapshot source: %w", process.ErrInvalidArgument)
	}
	log := in.log()

	// Without the privilege protected processes cannot be opened, which only reduces
	// the metadata we can collect.
	if in.EscalatePrivilege && in.Privileges != nil {
		if err := in.Privileges.EnableDebugPrivilege(); err != nil {
			log.Warn("Failed to enable debug privilege, continuing with partial visibility: ", err)
		}
	}

	entries, err := in.Source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", process.ErrSnapshotUnavailable, err)
	}

	clock := in.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	records := make([]*process.Record, 0, len(entries))
	for _, e := range entries {
		rec := &process.Record{
			PID:          e.PID,
			PPID:         e.PPID,
			ImageName:    e.Name,
			CreationTime: now,
		}
		if !in.Reserved.IsReserved(e.PID) {
			in.populate(rec)
		}
		records = append(records, rec)
	}

	log.Debugln("Snapshot ingested,", len(records), "processes")
	return records, nil
}

// populate fills path, creation time and the WOW64 flag, leaving defaults on failure.
func (in *Ingestor) populate(rec *process.Record) {
	if in.Opener == nil {
		return
	}
	log := in.log()

	h, err := in.Opener.OpenQuery(rec.PID)
	if err != nil {
		// Routine for protected processes.
		log.Debugln("OpenQuery failed, pid =", rec.PID, rec.ImageName, err)
		return
	}
	defer h.Close()

	if path, err := h.ImagePath(); err != nil {
		queryFailed(log, "ImagePath", rec, err)
	} else {
		rec.FullPath = path
	}

	if created, err := h.CreationTime(); err != nil {
		queryFailed(log, "CreationTime", rec, err)
	} else {
		rec.CreationTime = created
	}

	if wow64, err := h.IsWow64(); err != nil {
		queryFailed(log, "IsWow64", rec, err)
	} else {
		rec.IsWow64 = wow64
	}
}

// queryFailed logs a sub-query failure. Permission denials on unprivileged runs are
// expected for most foreign processes and only logged at debug level.
func queryFailed(log *logger.Logger, what string, rec *process.Record, err error) {
	if errors.Is(err, fs.ErrPermission) {
		log.Debugln(what, "denied, pid =", rec.PID, rec.ImageName)
		return
	}
	log.Warn(fmt.Sprintf("%s failed, pid=%d, process=%s: %v", what, rec.PID, rec.ImageName, err))
}
