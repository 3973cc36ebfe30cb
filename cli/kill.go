package cli

import (
	"fmt"
	"time"

	"proctree/process"

	"github.com/spf13/cobra"
)

func newKillCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill <pid|name>",
		Short: "Terminate one process",
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
			if err := t.Kill(pid, s.cfg.Kill.ExitCode, s.cfg.Privilege.Escalate); err != nil {
				return err
			}
			rec, _ := t.Get(pid)
			fmt.Fprintf(cmd.OutOrStdout(), "killed %d %s\n", rec.PID, rec.ImageName)
			return nil
		},
	}
	addKillFlags(cmd)
	return cmd
}

func newKillTreeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill-tree <pid|name>",
		Short: "Terminate a process and all of its descendants, children first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.snapshot()
			if err != nil {
				return err
			}
			root, err := resolve(t, args[0])
			if err != nil {
				return err
			}
			// Collected before killing; the kill itself does not change ancestry.
			members, err := t.Descendants(root)
			if err != nil {
				return err
			}
			if err := t.KillTree(root, s.cfg.Kill.ExitCode, s.cfg.Privilege.Escalate); err != nil {
				return err
			}
			rootRec, _ := t.Get(root)
			members = append(members, rootRec)

			out := cmd.OutOrStdout()
			var killed []*process.Record
			for _, rec := range members {
				if rec.Killed {
					killed = append(killed, rec)
				} else {
					fmt.Fprintf(out, "failed %d %s\n", rec.PID, rec.ImageName)
				}
			}
			fmt.Fprintf(out, "killed %d of %d processes\n", len(killed), len(members))

			if wait := s.cfg.Kill.Wait.Duration; wait > 0 {
				if err := waitAll(s.sys, killed, wait); err != nil {
					return err
				}
			}
			if !rootRec.Killed {
				return fmt.Errorf("kill tree %d: root survived", root)
			}
			return nil
		},
	}
	addKillFlags(cmd)
	cmd.Flags().Duration("wait", 0, "Wait up to this long for the killed processes to exit")
	return cmd
}

// waitAll blocks until every record has exited or the shared deadline passes.
func waitAll(sys process.System, recs []*process.Record, timeout time.Duration) error {
	waiter, ok := sys.(process.Waiter)
	if !ok {
		return nil
	}
	deadline := time.Now().Add(timeout)
	var alive []process.ProcessID
	for _, rec := range recs {
		if !waiter.WaitExit(rec.PID, max(time.Until(deadline), 0)) {
			alive = append(alive, rec.PID)
		}
	}
	if len(alive) > 0 {
		return fmt.Errorf("still running after %s: %v", timeout, alive)
	}
	return nil
}
