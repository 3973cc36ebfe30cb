package report

import (
	"fmt"
	"io"
	"strings"

	"proctree/process"
	"proctree/tree"

	"github.com/dustin/go-humanize"
)

// PrintTree writes the subtree rooted at root, one line per process, prefixed
// with one '+' per level below root.
func PrintTree(w io.Writer, t *tree.Tree, root process.ProcessID, opts Options) error {
	now := opts.now()
	var werr error
	err := t.Walk(root, func(rec *process.Record, depth int) bool {
		_, werr = fmt.Fprintf(w, "%spid = %s (ppid = %d), %s %s\n",
			strings.Repeat("+", depth),
			opts.Palette.Blue(pid(rec.PID)),
			rec.PPID,
			name(rec, opts.Palette),
			opts.Palette.Gray("started "+humanize.RelTime(rec.CreationTime, now, "ago", "from now")),
		)
		return werr == nil
	})
	if werr != nil {
		return werr
	}
	return err
}

// PrintTreeByName resolves name with FindByName and prints that subtree
func PrintTreeByName(w io.Writer, t *tree.Tree, name string, opts Options) error {
	root, err := t.FindByName(name)
	if err != nil {
		return err
	}
	return PrintTree(w, t, root, opts)
}
