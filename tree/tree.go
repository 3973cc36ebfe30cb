// Package tree reconstructs process ancestry from a point-in-time snapshot.
//
// A Tree owns every record of one snapshot. Parent links are never stored: a
// record's PPID is only a candidate that is validated against creation times
// each time it is followed, because the operating system recycles identifiers.
//
// A Tree is not safe for concurrent use. Traversals only read it; Kill and
// KillTree flip Record.Killed.
package tree

import (
	"sort"
	"strings"
	"time"

	"proctree/process"
	"proctree/snapshot"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Tree is the keyed collection of one snapshot generation
type Tree struct {
	records  map[process.ProcessID]*process.Record
	children map[process.ProcessID][]*process.Record
	reserved process.ReservedIDs
	ctl      process.Controller
	log      *logger.Logger
}

// Option configures a Tree
type Option func(*Tree)

// WithReserved sets the idle and system identifiers. Defaults to process.WindowsReserved.
func WithReserved(r process.ReservedIDs) Option {
	return func(t *Tree) { t.reserved = r }
}

// WithController sets the capability used by Kill and KillTree
func WithController(ctl process.Controller) Option {
	return func(t *Tree) { t.ctl = ctl }
}

// WithLogger replaces the default logger
func WithLogger(l *logger.Logger) Option {
	return func(t *Tree) { t.log = l }
}

// New indexes records into a Tree. A later record with a duplicate pid replaces the earlier one.
func New(records []*process.Record, opts ...Option) *Tree {
	t := &Tree{
		records:  make(map[process.ProcessID]*process.Record, len(records)),
		reserved: process.WindowsReserved,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "proctree"))
	}

	for _, rec := range records {
		if rec == nil {
			continue
		}
		t.records[rec.PID] = rec
	}

	// Candidate children grouped by claimed parent. The creation time rule is
	// applied when the index is read, not here.
	t.children = make(map[process.ProcessID][]*process.Record, len(t.records))
	for _, rec := range t.records {
		t.children[rec.PPID] = append(t.children[rec.PPID], rec)
	}
	for _, list := range t.children {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreationTime.Equal(list[j].CreationTime) {
				return list[i].CreationTime.Before(list[j].CreationTime)
			}
			return list[i].PID < list[j].PID
		})
	}

	return t
}

// Build takes a fresh snapshot through ing and indexes it.
// The reserved identifiers of the ingestor are used unless an option overrides them.
func Build(ing *snapshot.Ingestor, opts ...Option) (*Tree, error) {
	records, err := ing.Ingest()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithReserved(ing.Reserved)}, opts...)
	return New(records, opts...), nil
}

// Reserved returns the idle and system identifiers of this tree
func (t *Tree) Reserved() process.ReservedIDs {
	return t.reserved
}

// Len returns the number of records
func (t *Tree) Len() int {
	return len(t.records)
}

// Records returns every record ordered by pid
func (t *Tree) Records() []*process.Record {
	out := make([]*process.Record, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// Get returns the record for pid
func (t *Tree) Get(pid process.ProcessID) (*process.Record, bool) {
	rec, ok := t.records[pid]
	return rec, ok
}

// FindByName returns the pid of the first record whose image name matches, ignoring case.
// Map iteration order decides which record is first when several share a name.
func (t *Tree) FindByName(name string) (process.ProcessID, error) {
	if name == "" {
		return 0, process.ErrInvalidArgument
	}
	for pid, rec := range t.records {
		if strings.EqualFold(rec.ImageName, name) {
			return pid, nil
		}
	}
	return 0, process.ErrNotFound
}

// Name returns the image name of pid
func (t *Tree) Name(pid process.ProcessID) (string, error) {
	rec, ok := t.records[pid]
	if !ok {
		return "", process.ErrNotFound
	}
	return rec.ImageName, nil
}

// Path returns the full executable path of pid, empty when it was not obtainable
func (t *Tree) Path(pid process.ProcessID) (string, error) {
	rec, ok := t.records[pid]
	if !ok {
		return "", process.ErrNotFound
	}
	return rec.FullPath, nil
}

// CreationTime returns the recorded creation time of pid
func (t *Tree) CreationTime(pid process.ProcessID) (time.Time, error) {
	rec, ok := t.records[pid]
	if !ok {
		return time.Time{}, process.ErrNotFound
	}
	return rec.CreationTime, nil
}
