// Package report renders process trees for terminals.
package report

import (
	"io"
	"strconv"
	"time"

	"proctree/process"
	"proctree/tree"

	"github.com/dustin/go-humanize"
)

// Options controls rendering
type Options struct {
	Palette Palette
	// Now anchors relative ages; zero means time.Now.
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// List writes one row per record, ordered by pid.
// PARENT is the validated parent and is blank when the claimed PPID was recycled.
func List(w io.Writer, t *tree.Tree, opts Options) error {
	p := opts.Palette
	table := NewTable(
		ColumnSpec{Header: "PID", FormatFunc: p.Blue},
		ColumnSpec{Header: "PPID"},
		ColumnSpec{Header: "PARENT", FormatFunc: p.Green},
		ColumnSpec{Header: "STARTED", FormatFunc: p.Gray},
		ColumnSpec{Header: "WOW64", FormatFunc: p.Yellow},
		ColumnSpec{Header: "NAME"},
		ColumnSpec{Header: "PATH", FormatFunc: p.Gray, BlankValue: " "},
	)

	now := opts.now()
	for _, rec := range t.Records() {
		parent := ""
		if pr := t.Parent(rec); pr != nil {
			parent = strconv.FormatUint(uint64(pr.PID), 10)
		}
		wow := ""
		if rec.IsWow64 {
			wow = "yes"
		}
		table.AddRow(
			pid(rec.PID),
			pid(rec.PPID),
			parent,
			humanize.RelTime(rec.CreationTime, now, "ago", "from now"),
			wow,
			name(rec, p),
			rec.FullPath,
		)
	}

	return table.Render(w)
}

func pid(id process.ProcessID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func name(rec *process.Record, p Palette) string {
	if rec.Killed {
		return p.Red(rec.ImageName + " (killed)")
	}
	return rec.ImageName
}
