//go:build linux

// Command example prints the ancestry and descendants of the current process.
package main

import (
	"fmt"
	"os"

	"proctree/process"
	"proctree/process_linux"
	"proctree/report"
	"proctree/snapshot"
	"proctree/tree"
)

func main() {
	// 1. Open the platform adapter
	sys, err := process_linux.New("", 0)
	if err != nil {
		fmt.Printf("Failed to open procfs: %v\n", err)
		return
	}

	// 2. Snapshot and build the tree. The adapter also acts as the kill controller.
	t, err := tree.Build(snapshot.New(sys, false), tree.WithController(sys))
	if err != nil {
		fmt.Printf("Failed to build tree: %v\n", err)
		return
	}
	fmt.Printf("Snapshot holds %d processes\n", t.Len())

	// 3. Walk up from ourselves. Parents created after us are recycled pids and are skipped.
	self := process.ProcessID(os.Getpid())
	chain, err := t.Ancestors(self)
	if err != nil {
		fmt.Printf("Failed to resolve ancestors: %v\n", err)
		return
	}
	for i, rec := range chain {
		fmt.Printf("%*s%d %s\n", i*2, "", rec.PID, rec.ImageName)
	}

	// 4. Print the subtree of our topmost ancestor
	if len(chain) > 0 {
		top := chain[len(chain)-1]
		if err := report.PrintTree(os.Stdout, t, top.PID, report.Options{}); err != nil {
			fmt.Printf("Failed to print tree: %v\n", err)
		}
	}
}
