package snapshot

import (
	"errors"
	"testing"
	"time"

	"proctree/process"
	"proctree/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var captured = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newIngestor(sys *processtest.System, escalate bool) *Ingestor {
	in := New(sys, escalate)
	in.Clock = func() time.Time { return captured }
	return in
}

func byPID(records []*process.Record) map[process.ProcessID]*process.Record {
	m := make(map[process.ProcessID]*process.Record, len(records))
	for _, r := range records {
		m[r.PID] = r
	}
	return m
}

func TestIngest_PopulatesMetadata(t *testing.T) {
	created := captured.Add(-time.Hour)
	sys := processtest.New(
		&processtest.Proc{PID: 0, PPID: 0, Name: "[System Process]"},
		&processtest.Proc{PID: 4, PPID: 0, Name: "System"},
		&processtest.Proc{PID: 100, PPID: 4, Name: "svc.exe", Path: `C:\svc.exe`, Created: created, Wow64: true},
	)

	records, err := newIngestor(sys, false).Ingest()
	require.NoError(t, err)
	require.Len(t, records, 3)

	m := byPID(records)
	assert.Equal(t, `C:\svc.exe`, m[100].FullPath)
	assert.Equal(t, created, m[100].CreationTime)
	assert.True(t, m[100].IsWow64)
	assert.False(t, m[100].Killed)

	for _, pid := range []process.ProcessID{0, 4} {
		assert.Empty(t, m[pid].FullPath)
		assert.Equal(t, captured, m[pid].CreationTime)
		assert.False(t, m[pid].IsWow64)
	}

	assert.NotContains(t, sys.Calls, "open-query:0")
	assert.NotContains(t, sys.Calls, "open-query:4")
	assert.Equal(t, sys.OpenCount, sys.CloseCount)
}

func TestIngest_DegradesPerRecord(t *testing.T) {
	sys := processtest.New(
		&processtest.Proc{PID: 10, PPID: 4, Name: "csrss.exe", DenyQuery: true},
		&processtest.Proc{PID: 11, PPID: 4, Name: "a.exe", Path: `C:\a.exe`, Created: captured.Add(-time.Minute), FailPath: true},
		&processtest.Proc{PID: 12, PPID: 4, Name: "b.exe", Path: `C:\b.exe`, FailTimes: true, Wow64: true},
		&processtest.Proc{PID: 13, PPID: 4, Name: "c.exe", Path: `C:\c.exe`, Created: captured.Add(-time.Second), Wow64: true, FailWow64: true},
	)

	records, err := newIngestor(sys, false).Ingest()
	require.NoError(t, err)
	m := byPID(records)

	assert.Equal(t, "csrss.exe", m[10].ImageName)
	assert.Empty(t, m[10].FullPath)
	assert.Equal(t, captured, m[10].CreationTime)

	assert.Empty(t, m[11].FullPath)
	assert.Equal(t, captured.Add(-time.Minute), m[11].CreationTime)

	assert.Equal(t, `C:\b.exe`, m[12].FullPath)
	assert.Equal(t, captured, m[12].CreationTime)
	assert.True(t, m[12].IsWow64)

	assert.False(t, m[13].IsWow64)
	assert.Equal(t, 3, sys.CloseCount)
}

func TestIngest_PrivilegeFailureIsNotFatal(t *testing.T) {
	sys := processtest.New(&processtest.Proc{PID: 8, PPID: 4, Name: "x.exe"})
	sys.PrivilegeErr = process.ErrPrivilegeUnavailable

	records, err := newIngestor(sys, true).Ingest()
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "privilege", sys.Calls[0])
}

func TestIngest_NoPrivilegeRequestByDefault(t *testing.T) {
	sys := processtest.New(&processtest.Proc{PID: 8, PPID: 4, Name: "x.exe"})

	_, err := newIngestor(sys, false).Ingest()
	require.NoError(t, err)
	assert.NotContains(t, sys.Calls, "privilege")
}

func TestIngest_SnapshotFailure(t *testing.T) {
	sys := processtest.New()
	sys.SnapshotErr = errors.New("toolhelp failed")

	records, err := newIngestor(sys, false).Ingest()
	assert.Nil(t, records)
	assert.ErrorIs(t, err, process.ErrSnapshotUnavailable)
	assert.ErrorContains(t, err, "toolhelp failed")
}

func TestIngest_NilSource(t *testing.T) {
	_, err := (&Ingestor{}).Ingest()
	assert.ErrorIs(t, err, process.ErrInvalidArgument)
}
