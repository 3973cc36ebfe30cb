// Package cli implements the proctree command line.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"proctree/config"
	"proctree/process"
	"proctree/report"
	"proctree/snapshot"
	"proctree/tree"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *session) {
	s := &session{openSystem: openSystem}

	root := &cobra.Command{
		Use:   "proctree",
		Short: "Inspect process ancestry and terminate process trees",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.configFile, "config", "c", "", "Path to a YAML configuration file")
	flags.Bool("escalate", false, "Enable the debug privilege before querying and killing")
	flags.String("color", config.ColorAuto, "Colorize output: auto, always or never")
	flags.String("proc", config.DefaultMount, "procfs mount point (Linux)")

	root.AddCommand(newListCmd(s))
	root.AddCommand(newTreeCmd(s))
	root.AddCommand(newParentCmd(s))
	root.AddCommand(newFindCmd(s))
	root.AddCommand(newKillCmd(s))
	root.AddCommand(newKillTreeCmd(s))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, s
}

// Execute runs the CLI entrypoint.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session carries state shared by the subcommands of one invocation
type session struct {
	configFile string
	cfg        *config.Config
	openSystem func(*config.Config) (process.System, error)

	sys  process.System
	tree *tree.Tree
}

// loadConfig reads the configuration file and applies explicitly set flags on top.
func (s *session) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadOptional(s.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("escalate") {
		cfg.Privilege.Escalate, _ = flags.GetBool("escalate")
	}
	if flags.Changed("color") {
		cfg.Output.Color, _ = flags.GetString("color")
	}
	if flags.Changed("proc") {
		cfg.Procfs.Mount, _ = flags.GetString("proc")
	}
	if flags.Lookup("exit-code") != nil && flags.Changed("exit-code") {
		cfg.Kill.ExitCode, _ = flags.GetUint32("exit-code")
	}
	if flags.Lookup("signal") != nil && flags.Changed("signal") {
		cfg.Kill.Signal, _ = flags.GetString("signal")
	}
	if flags.Lookup("wait") != nil && flags.Changed("wait") {
		cfg.Kill.Wait.Duration, _ = flags.GetDuration("wait")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// snapshot builds the process tree once per invocation
func (s *session) snapshot() (*tree.Tree, error) {
	if s.tree != nil {
		return s.tree, nil
	}

	sys, err := s.openSystem(s.cfg)
	if err != nil {
		return nil, err
	}

	t, err := tree.Build(snapshot.New(sys, s.cfg.Privilege.Escalate), tree.WithController(sys))
	if err != nil {
		return nil, err
	}
	s.sys = sys
	s.tree = t
	return t, nil
}

func (s *session) reportOptions() report.Options {
	color := false
	switch s.cfg.Output.Color {
	case config.ColorAlways:
		color = true
	case config.ColorAuto:
		color = term.IsTerminal(int(os.Stdout.Fd()))
	}
	return report.Options{Palette: report.Palette{Enabled: color}}
}

// resolve accepts a decimal pid or an image name.
func resolve(t *tree.Tree, arg string) (process.ProcessID, error) {
	if n, err := strconv.ParseUint(arg, 10, 32); err == nil {
		return process.ProcessID(n), nil
	}
	return t.FindByName(arg)
}

func addKillFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32("exit-code", config.DefaultExitCode, "Exit code for the terminated processes (Windows)")
	cmd.Flags().String("signal", config.DefaultSignal, "Signal delivered to the terminated processes (Unix)")
}
