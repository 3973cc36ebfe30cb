package config

import (
	"fmt"
	"strings"
)

// Config holds the tunables of the proctree command.
type Config struct {
	Privilege PrivilegeConfig `yaml:"privilege"`
	Kill      KillConfig      `yaml:"kill"`
	Procfs    ProcfsConfig    `yaml:"procfs"`
	Output    OutputConfig    `yaml:"output"`
}

type PrivilegeConfig struct {
	// Escalate requests the debug privilege before the snapshot and on denied kills.
	Escalate bool `yaml:"escalate"`
}

type KillConfig struct {
	ExitCode uint32 `yaml:"exitCode"`
	// Signal is delivered on Unix, where an exit code cannot be imposed.
	Signal string `yaml:"signal"`
	// Wait bounds how long kill-tree waits for processes to disappear. Zero disables waiting.
	Wait Duration `yaml:"wait"`
}

type ProcfsConfig struct {
	Mount string `yaml:"mount"`
}

type OutputConfig struct {
	Color string `yaml:"color"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	DefaultExitCode = 1
	DefaultSignal   = "SIGKILL"
	DefaultMount    = "/proc"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Kill.ExitCode == 0 {
		c.Kill.ExitCode = DefaultExitCode
	}
	if c.Kill.Signal == "" {
		c.Kill.Signal = DefaultSignal
	}
	if c.Procfs.Mount == "" {
		c.Procfs.Mount = DefaultMount
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	c.Kill.Signal = strings.ToUpper(strings.TrimSpace(c.Kill.Signal))
	if !strings.HasPrefix(c.Kill.Signal, "SIG") || len(c.Kill.Signal) == len("SIG") {
		return fmt.Errorf("kill.signal: %q is not a signal name", c.Kill.Signal)
	}
	if c.Kill.Wait.Duration < 0 {
		return fmt.Errorf("kill.wait: must not be negative")
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color: must be one of %s, %s or %s", ColorAuto, ColorAlways, ColorNever)
	}
	return nil
}
