//go:build unix && !linux

package cli

import (
	"fmt"

	"proctree/config"
	"proctree/process"
	"proctree/process_gopsutil"

	"golang.org/x/sys/unix"
)

func openSystem(cfg *config.Config) (process.System, error) {
	sig := unix.SignalNum(cfg.Kill.Signal)
	if sig == 0 {
		return nil, fmt.Errorf("unknown signal %q", cfg.Kill.Signal)
	}
	return process_gopsutil.New(sig), nil
}
