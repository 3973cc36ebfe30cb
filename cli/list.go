package cli

import (
	"fmt"

	"proctree/process"
	"proctree/report"

	"github.com/spf13/cobra"
)

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every process of the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.snapshot()
			if err != nil {
				return err
			}
			return report.List(cmd.OutOrStdout(), t, s.reportOptions())
		},
	}
}

func newTreeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [pid|name]",
		Short: "Print the process tree below a process, the system process by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.snapshot()
			if err != nil {
				return err
			}
			root := t.Reserved().System
			if len(args) == 1 {
				if root, err = resolve(t, args[0]); err != nil {
					return err
				}
			}
			return report.PrintTree(cmd.OutOrStdout(), t, root, s.reportOptions())
		},
	}
}

func newParentCmd(s *session) *cobra.Command {
	var ancestors bool
	cmd := &cobra.Command{
		Use:   "parent <pid|name>",
		Short: "Show the validated parent of a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.snapshot()
			if err != nil {
				return err
			}
			pid, err := resolve(t, args[0])
			if err != nil {
				return err
			}

			var chain []*process.Record
			if ancestors {
				chain, err = t.Ancestors(pid)
				if err != nil {
					return err
				}
			} else {
				parent, err := t.ParentOf(pid)
				if err != nil {
					return err
				}
				chain = append(chain, parent)
			}

			for _, rec := range chain {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", rec.PID, rec.ImageName)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&ancestors, "ancestors", "a", false, "Print the whole ancestor chain, nearest first")
	return cmd
}

func newFindCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "find <name>",
		Short: "Print the pid of a process by image name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.snapshot()
			if err != nil {
				return err
			}
			pid, err := t.FindByName(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pid)
			return nil
		},
	}
}
