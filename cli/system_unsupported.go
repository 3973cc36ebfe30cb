//go:build !unix && !windows

package cli

import (
	"errors"

	"proctree/config"
	"proctree/process"
)

func openSystem(cfg *config.Config) (process.System, error) {
	return nil, errors.New("process enumeration is not supported on this platform")
}
