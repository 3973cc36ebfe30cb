package tree

import (
	"fmt"

	"proctree/process"

	"go.uber.org/multierr"
)

// Kill terminates pid with exitCode.
// A record already marked killed is not contacted again. When the terminate handle
// cannot be opened and escalate is set, the debug privilege is enabled and the open
// is retried once.
func (t *Tree) Kill(pid process.ProcessID, exitCode uint32, escalate bool) error {
	if t.reserved.IsReserved(pid) {
		return fmt.Errorf("kill pid %d: %w", pid, process.ErrReserved)
	}
	rec, ok := t.records[pid]
	if !ok {
		return fmt.Errorf("kill pid %d: %w", pid, process.ErrNotFound)
	}
	return t.kill(rec, exitCode, escalate)
}

// KillByName terminates the first process whose image name matches name
func (t *Tree) KillByName(name string, exitCode uint32, escalate bool) error {
	pid, err := t.FindByName(name)
	if err != nil {
		return fmt.Errorf("kill %q: %w", name, err)
	}
	return t.Kill(pid, exitCode, escalate)
}

// KillTree terminates every descendant of root, children before parents, then root.
// Failures are logged and skipped. The returned error only reports whether root was
// found and eligible; inspect Record.Killed for per-process outcomes.
func (t *Tree) KillTree(root process.ProcessID, exitCode uint32, escalate bool) error {
	if t.reserved.IsReserved(root) {
		return fmt.Errorf("kill tree %d: %w", root, process.ErrReserved)
	}
	rec, ok := t.records[root]
	if !ok {
		return fmt.Errorf("kill tree %d: %w", root, process.ErrNotFound)
	}
	if rec.Killed {
		t.log.Infoln("Already killed, pid =", rec.PID, rec.ImageName)
		return nil
	}

	t.killTree(rec, exitCode, escalate, make(map[process.ProcessID]bool))
	return nil
}

func (t *Tree) killTree(node *process.Record, exitCode uint32, escalate bool, visited map[process.ProcessID]bool) {
	visited[node.PID] = true
	for _, child := range t.childrenOf(node) {
		if visited[child.PID] {
			continue
		}
		t.killTree(child, exitCode, escalate, visited)
	}

	if err := t.kill(node, exitCode, escalate); err != nil {
		t.log.Warn(fmt.Sprintf("Skipping pid=%d (%s): %v", node.PID, node.ImageName, err))
	}
}

func (t *Tree) kill(rec *process.Record, exitCode uint32, escalate bool) (err error) {
	if t.reserved.IsReserved(rec.PID) {
		return fmt.Errorf("kill pid %d: %w", rec.PID, process.ErrReserved)
	}
	if rec.Killed {
		return nil
	}
	if t.ctl == nil {
		return fmt.Errorf("kill pid %d: no process controller: %w", rec.PID, process.ErrInvalidArgument)
	}

	h, err := t.ctl.OpenTerminate(rec.PID)
	if err != nil && escalate {
		if perr := t.ctl.EnableDebugPrivilege(); perr != nil {
			return fmt.Errorf("open pid %d for termination, debug privilege unavailable (%v): %w", rec.PID, perr, err)
		}
		h, err = t.ctl.OpenTerminate(rec.PID)
	}
	if err != nil {
		return fmt.Errorf("open pid %d for termination: %w", rec.PID, err)
	}

	// Termination is asynchronous; closing only ends our interest in the process.
	defer multierr.AppendInvoke(&err, multierr.Close(h))

	if err := h.Terminate(exitCode); err != nil {
		return fmt.Errorf("terminate pid %d: %w", rec.PID, err)
	}

	rec.Killed = true
	t.log.Debugln("Terminated, pid =", rec.PID, rec.ImageName)
	return nil
}
