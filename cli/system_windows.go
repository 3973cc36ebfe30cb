//go:build windows

package cli

import (
	"proctree/config"
	"proctree/process"
	"proctree/process_windows"
)

func openSystem(cfg *config.Config) (process.System, error) {
	return process_windows.New(), nil
}
