package tree

import "proctree/process"

// VisitFunc is called for every visited record with the caller's tag.
// Returning false stops the traversal.
type VisitFunc func(rec *process.Record, tag any) bool

// WalkFunc is like VisitFunc but receives the depth below the traversal root.
type WalkFunc func(rec *process.Record, depth int) bool

// Iterate visits every record in unspecified order.
// It returns process.ErrAborted when fn stops the walk.
func (t *Tree) Iterate(fn VisitFunc, tag any) error {
	if fn == nil {
		return process.ErrInvalidArgument
	}
	for _, rec := range t.records {
		if !fn(rec, tag) {
			return process.ErrAborted
		}
	}
	return nil
}

// IterateTree visits root and then its descendants in pre-order.
// It returns process.ErrNotFound for an unknown root and process.ErrAborted when fn stops the walk.
func (t *Tree) IterateTree(root process.ProcessID, fn VisitFunc, tag any) error {
	if fn == nil {
		return process.ErrInvalidArgument
	}
	return t.Walk(root, func(rec *process.Record, _ int) bool {
		return fn(rec, tag)
	})
}

// Walk is IterateTree with the depth of each record instead of a tag.
func (t *Tree) Walk(root process.ProcessID, fn WalkFunc) error {
	if fn == nil {
		return process.ErrInvalidArgument
	}
	rec, ok := t.records[root]
	if !ok {
		return process.ErrNotFound
	}
	if !t.walk(rec, 0, make(map[process.ProcessID]bool), fn) {
		return process.ErrAborted
	}
	return nil
}

func (t *Tree) walk(node *process.Record, depth int, visited map[process.ProcessID]bool, fn WalkFunc) bool {
	visited[node.PID] = true
	if !fn(node, depth) {
		return false
	}

	// Some snapshot sources report the idle process as its own parent, or as
	// the parent of unrelated entries.
	if node.PID == t.reserved.Idle {
		return true
	}

	for _, child := range t.childrenOf(node) {
		if visited[child.PID] {
			continue
		}
		if !t.walk(child, depth+1, visited, fn) {
			return false
		}
	}
	return true
}

// Descendants returns every record below root in pre-order, root excluded.
func (t *Tree) Descendants(root process.ProcessID) ([]*process.Record, error) {
	var out []*process.Record
	err := t.Walk(root, func(rec *process.Record, depth int) bool {
		if depth > 0 {
			out = append(out, rec)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
