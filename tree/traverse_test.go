package tree

import (
	"testing"

	"proctree/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// family is:
//
//	10 ── 11 ── 13
//	   └─ 12
//	20 (claims 10 as parent but is older: recycled identifier)
func family(t *testing.T) *Tree {
	tr, _ := fixture(t,
		proc(10, 4, 10, "root.exe"),
		proc(11, 10, 11, "a.exe"),
		proc(12, 10, 12, "b.exe"),
		proc(13, 11, 13, "c.exe"),
		proc(20, 10, 5, "stale.exe"),
	)
	return tr
}

func collect(t *testing.T, tr *Tree, root process.ProcessID) []process.ProcessID {
	t.Helper()
	var order []process.ProcessID
	err := tr.IterateTree(root, func(rec *process.Record, tag any) bool {
		order = append(order, rec.PID)
		return true
	}, nil)
	require.NoError(t, err)
	return order
}

func indexOf(list []process.ProcessID, pid process.ProcessID) int {
	for i, p := range list {
		if p == pid {
			return i
		}
	}
	return -1
}

func TestIterateTree_PreOrder(t *testing.T) {
	order := collect(t, family(t), 10)

	assert.ElementsMatch(t, []process.ProcessID{10, 11, 12, 13}, order)
	assert.Equal(t, process.ProcessID(10), order[0])
	assert.Less(t, indexOf(order, 11), indexOf(order, 13))
	assert.NotContains(t, order, process.ProcessID(20))
}

func TestIterateTree_PassesTag(t *testing.T) {
	tr := family(t)
	type counter struct{ n int }
	c := &counter{}

	err := tr.IterateTree(10, func(rec *process.Record, tag any) bool {
		tag.(*counter).n++
		return true
	}, c)
	require.NoError(t, err)
	assert.Equal(t, 4, c.n)
}

func TestIterateTree_AbortAfterAnyVisit(t *testing.T) {
	tr := family(t)

	for stopAt := 1; stopAt <= 4; stopAt++ {
		visits := 0
		err := tr.IterateTree(10, func(rec *process.Record, tag any) bool {
			visits++
			return visits < stopAt
		}, nil)
		assert.ErrorIs(t, err, process.ErrAborted)
		assert.Equal(t, stopAt, visits)
	}
}

func TestIterateTree_Errors(t *testing.T) {
	tr := family(t)

	err := tr.IterateTree(999, func(*process.Record, any) bool { return true }, nil)
	assert.ErrorIs(t, err, process.ErrNotFound)

	err = tr.IterateTree(10, nil, nil)
	assert.ErrorIs(t, err, process.ErrInvalidArgument)
}

func TestIterateTree_EqualCreationTimeSiblings(t *testing.T) {
	tr, _ := fixture(t,
		proc(10, 4, 7, "root.exe"),
		proc(11, 10, 7, "a.exe"),
		proc(12, 10, 7, "b.exe"),
	)

	assert.ElementsMatch(t, []process.ProcessID{10, 11, 12}, collect(t, tr, 10))
}

func TestIterateTree_IdleIsNotRecursed(t *testing.T) {
	tr, _ := fixture(t,
		proc(0, 0, 0, "[System Process]"),
		proc(4, 0, 0, "System"),
		proc(50, 0, 2000, "weird.exe"),
	)

	assert.Equal(t, []process.ProcessID{0}, collect(t, tr, 0))
}

func TestIterateTree_ReservedNeverChildren(t *testing.T) {
	// System is stamped with the capture instant, which makes it look younger
	// than the record it claims as parent.
	tr, _ := fixture(t,
		proc(100, 4, 0, "smss.exe"),
		proc(4, 100, 0, "System"),
	)

	assert.Equal(t, []process.ProcessID{100}, collect(t, tr, 100))
}

func TestIterateTree_CycleVisitsOnce(t *testing.T) {
	tr, _ := fixture(t,
		proc(10, 11, 5, "a"),
		proc(11, 10, 5, "b"),
	)

	assert.Equal(t, []process.ProcessID{10, 11}, collect(t, tr, 10))
}

func TestIterate_VisitsAll(t *testing.T) {
	tr := family(t)
	seen := map[process.ProcessID]int{}

	err := tr.Iterate(func(rec *process.Record, tag any) bool {
		seen[rec.PID]++
		return true
	}, nil)
	require.NoError(t, err)
	assert.Len(t, seen, 5)
	for pid, n := range seen {
		assert.Equal(t, 1, n, "pid %d", pid)
	}
}

func TestIterate_Abort(t *testing.T) {
	tr := family(t)
	visits := 0

	err := tr.Iterate(func(rec *process.Record, tag any) bool {
		visits++
		return false
	}, nil)
	assert.ErrorIs(t, err, process.ErrAborted)
	assert.Equal(t, 1, visits)

	assert.ErrorIs(t, tr.Iterate(nil, nil), process.ErrInvalidArgument)
}

func TestWalk_Depth(t *testing.T) {
	tr := family(t)
	depths := map[process.ProcessID]int{}

	err := tr.Walk(10, func(rec *process.Record, depth int) bool {
		depths[rec.PID] = depth
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, map[process.ProcessID]int{10: 0, 11: 1, 12: 1, 13: 2}, depths)
}

func TestDescendants(t *testing.T) {
	desc, err := family(t).Descendants(10)
	require.NoError(t, err)

	var pids []process.ProcessID
	for _, d := range desc {
		pids = append(pids, d.PID)
	}
	assert.ElementsMatch(t, []process.ProcessID{11, 12, 13}, pids)
}
