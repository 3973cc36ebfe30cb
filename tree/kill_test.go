package tree

import (
	"testing"

	"proctree/process"
	"proctree/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func killed(tr *Tree, pid process.ProcessID) bool {
	rec, _ := tr.Get(pid)
	return rec != nil && rec.Killed
}

func TestKillTree_LeavesFirst(t *testing.T) {
	tr, sys := fixture(t,
		proc(10, 4, 1, "a.exe"),
		proc(11, 10, 2, "b.exe"),
		proc(12, 11, 3, "c.exe"),
	)

	require.NoError(t, tr.KillTree(10, 0, false))
	assert.Equal(t, []process.ProcessID{12, 11, 10}, sys.Terminated)
	assert.True(t, killed(tr, 10))
	assert.True(t, killed(tr, 11))
	assert.True(t, killed(tr, 12))
	assert.Equal(t, sys.OpenCount, sys.CloseCount)
}

func TestKillTree_SkipsRecycledIdentifiers(t *testing.T) {
	tr, sys := fixture(t,
		proc(10, 4, 10, "a.exe"),
		proc(11, 10, 11, "b.exe"),
		proc(12, 10, 3, "unrelated.exe"),
	)

	require.NoError(t, tr.KillTree(10, 0, false))
	assert.Equal(t, []process.ProcessID{11, 10}, sys.Terminated)
	assert.False(t, killed(tr, 12))
}

func TestKillTree_BestEffort(t *testing.T) {
	stubborn := proc(11, 10, 2, "stubborn.exe")
	stubborn.Protected = true
	broken := proc(13, 10, 4, "broken.exe")
	broken.FailTerminate = true

	tr, sys := fixture(t,
		proc(10, 4, 1, "root.exe"),
		stubborn,
		proc(12, 11, 3, "grandchild.exe"),
		broken,
		proc(14, 10, 5, "sibling.exe"),
	)

	require.NoError(t, tr.KillTree(10, 0, false))

	assert.True(t, killed(tr, 12))
	assert.False(t, killed(tr, 11))
	assert.False(t, killed(tr, 13))
	assert.True(t, killed(tr, 14))
	assert.True(t, killed(tr, 10))
	assert.Equal(t, process.ProcessID(10), sys.Terminated[len(sys.Terminated)-1])
	assert.Equal(t, sys.OpenCount, sys.CloseCount)
}

func TestKillTree_RootAlreadyKilled(t *testing.T) {
	tr, sys := fixture(t, proc(10, 4, 1, "a.exe"), proc(11, 10, 2, "b.exe"))
	tr.records[10].Killed = true

	require.NoError(t, tr.KillTree(10, 0, false))
	assert.Empty(t, sys.Calls)
	assert.False(t, killed(tr, 11))
}

func TestKillTree_Errors(t *testing.T) {
	tr, sys := fixture(t, proc(4, 0, 0, "System"), proc(10, 4, 2000, "a.exe"))

	assert.ErrorIs(t, tr.KillTree(4, 0, true), process.ErrReserved)
	assert.ErrorIs(t, tr.KillTree(0, 0, true), process.ErrReserved)
	assert.ErrorIs(t, tr.KillTree(99, 0, true), process.ErrNotFound)
	assert.Empty(t, sys.Calls)
	assert.False(t, killed(tr, 10))
}

func TestKill_Idempotent(t *testing.T) {
	tr, sys := fixture(t, proc(10, 4, 1, "a.exe"))

	require.NoError(t, tr.Kill(10, 3, false))
	calls := len(sys.Calls)

	require.NoError(t, tr.Kill(10, 3, false))
	assert.Len(t, sys.Calls, calls)
	assert.Equal(t, []process.ProcessID{10}, sys.Terminated)
}

func TestKill_EscalatesOnceAndRetries(t *testing.T) {
	p := proc(10, 4, 1, "a.exe")
	p.DenyTerminate = true
	tr, sys := fixture(t, p)

	require.NoError(t, tr.Kill(10, 0, true))
	assert.Equal(t, []string{"open-terminate:10", "privilege", "open-terminate:10", "terminate:10"}, sys.Calls)
	assert.True(t, killed(tr, 10))
}

func TestKill_NoEscalationWhenNotPermitted(t *testing.T) {
	p := proc(10, 4, 1, "a.exe")
	p.DenyTerminate = true
	tr, sys := fixture(t, p)

	err := tr.Kill(10, 0, false)
	assert.ErrorIs(t, err, processtest.ErrDenied)
	assert.Equal(t, []string{"open-terminate:10"}, sys.Calls)
	assert.False(t, killed(tr, 10))
}

func TestKill_EscalationFails(t *testing.T) {
	p := proc(10, 4, 1, "a.exe")
	p.DenyTerminate = true
	tr, sys := fixture(t, p)
	sys.PrivilegeErr = process.ErrPrivilegeUnavailable

	err := tr.Kill(10, 0, true)
	assert.ErrorIs(t, err, processtest.ErrDenied)
	assert.Equal(t, []string{"open-terminate:10", "privilege"}, sys.Calls)
}

func TestKill_HandleClosedWhenTerminateFails(t *testing.T) {
	p := proc(10, 4, 1, "a.exe")
	p.FailTerminate = true
	tr, sys := fixture(t, p)

	err := tr.Kill(10, 0, false)
	assert.ErrorIs(t, err, processtest.ErrDenied)
	assert.Equal(t, 1, sys.OpenCount)
	assert.Equal(t, 1, sys.CloseCount)
	assert.False(t, killed(tr, 10))
}

func TestKill_CloseFailureReported(t *testing.T) {
	p := proc(10, 4, 1, "a.exe")
	p.FailClose = true
	tr, _ := fixture(t, p)

	err := tr.Kill(10, 0, false)
	assert.ErrorContains(t, err, "close failed")
	assert.True(t, killed(tr, 10))
}

func TestKill_Rejections(t *testing.T) {
	tr, sys := fixture(t, proc(0, 0, 0, "[System Process]"), proc(4, 0, 0, "System"))

	assert.ErrorIs(t, tr.Kill(0, 0, true), process.ErrReserved)
	assert.ErrorIs(t, tr.Kill(4, 0, true), process.ErrReserved)
	assert.ErrorIs(t, tr.Kill(1234, 0, true), process.ErrNotFound)
	assert.Empty(t, sys.Calls)
}

func TestKill_NoController(t *testing.T) {
	tr := New([]*process.Record{{PID: 10, ImageName: "a.exe"}})

	assert.ErrorIs(t, tr.Kill(10, 0, false), process.ErrInvalidArgument)
}

func TestKillByName(t *testing.T) {
	tr, sys := fixture(t, proc(10, 4, 1, "Target.exe"))

	require.NoError(t, tr.KillByName("target.exe", 0, false))
	assert.Equal(t, []process.ProcessID{10}, sys.Terminated)

	assert.ErrorIs(t, tr.KillByName("none.exe", 0, false), process.ErrNotFound)
}
