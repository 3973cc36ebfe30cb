package tree

import "proctree/process"

// Parent returns the validated parent of rec, or nil.
// The record named by rec.PPID is accepted only if it was created no later than
// rec; a younger candidate holds a recycled identifier and is not an ancestor.
func (t *Tree) Parent(rec *process.Record) *process.Record {
	if rec == nil || t.reserved.IsReserved(rec.PID) {
		return nil
	}
	candidate, ok := t.records[rec.PPID]
	if !ok || candidate == rec {
		return nil
	}
	if candidate.CreationTime.After(rec.CreationTime) {
		return nil
	}
	return candidate
}

// ParentOf returns the validated parent of pid
func (t *Tree) ParentOf(pid process.ProcessID) (*process.Record, error) {
	rec, ok := t.records[pid]
	if !ok {
		return nil, process.ErrNotFound
	}
	parent := t.Parent(rec)
	if parent == nil {
		return nil, process.ErrNoParent
	}
	return parent, nil
}

// ParentPID returns the pid of the validated parent of pid
func (t *Tree) ParentPID(pid process.ProcessID) (process.ProcessID, error) {
	parent, err := t.ParentOf(pid)
	if err != nil {
		return 0, err
	}
	return parent.PID, nil
}

// ParentName returns the image name of the validated parent of pid
func (t *Tree) ParentName(pid process.ProcessID) (string, error) {
	parent, err := t.ParentOf(pid)
	if err != nil {
		return "", err
	}
	return parent.ImageName, nil
}

// Ancestors returns the validated parent chain of pid, nearest first.
func (t *Tree) Ancestors(pid process.ProcessID) ([]*process.Record, error) {
	rec, ok := t.records[pid]
	if !ok {
		return nil, process.ErrNotFound
	}
	var chain []*process.Record
	seen := map[process.ProcessID]bool{rec.PID: true}
	for p := t.Parent(rec); p != nil && !seen[p.PID]; p = t.Parent(p) {
		seen[p.PID] = true
		chain = append(chain, p)
	}
	return chain, nil
}

// childrenOf returns the records accepted as children of node: they claim node
// as parent and were created at or after it. Equal creation times are accepted.
func (t *Tree) childrenOf(node *process.Record) []*process.Record {
	var out []*process.Record
	for _, c := range t.children[node.PID] {
		if c == node || t.reserved.IsReserved(c.PID) {
			continue
		}
		if c.CreationTime.Before(node.CreationTime) {
			continue
		}
		out = append(out, c)
	}
	return out
}
