package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	nsoinv "github.com/OpenCHAMI/nsoinv/internal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *nsoinv.Report {
	return &nsoinv.Report{
		State:       nsoinv.StateDone,
		Generated:   []string{"r1", "r3"},
		Failed:      []nsoinv.DeviceFailure{{Device: "r2", Err: errors.New("missing tailf-ncs:config")}},
		HostVarsDir: "host_vars",
	}
}

func TestInsertAndGetRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	runID := uuid.NewString()
	now := time.Now().UTC()

	require.NoError(t, InsertRecords(path, sampleReport().Records(runID, now)...))

	records, err := GetRecords(path, "")
	require.NoError(t, err)
	require.Len(t, records, 3)

	byDevice := map[string]nsoinv.HostRecord{}
	for _, r := range records {
		assert.Equal(t, runID, r.RunID)
		assert.WithinDuration(t, now, r.Timestamp, time.Second)
		byDevice[r.Device] = r
	}
	assert.Equal(t, nsoinv.RecordGenerated, byDevice["r1"].Status)
	assert.Equal(t, filepath.Join("host_vars", "r1.yaml"), byDevice["r1"].Path)
	assert.Equal(t, nsoinv.RecordFailed, byDevice["r2"].Status)
	assert.Contains(t, byDevice["r2"].Error, "tailf-ncs:config")
}

func TestGetRecordsForRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, second := uuid.NewString(), uuid.NewString()
	now := time.Now().UTC()

	require.NoError(t, InsertRecords(path, sampleReport().Records(first, now)...))
	require.NoError(t, InsertRecords(path, sampleReport().Records(second, now.Add(time.Minute))...))

	records, err := GetRecords(path, second)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, second, r.RunID)
	}
}

func TestDeleteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, second := uuid.NewString(), uuid.NewString()
	now := time.Now().UTC()
	require.NoError(t, InsertRecords(path, sampleReport().Records(first, now)...))
	require.NoError(t, InsertRecords(path, sampleReport().Records(second, now)...))

	require.NoError(t, DeleteRecords(path, nsoinv.HostRecord{RunID: first}))
	require.NoError(t, DeleteRecords(path, nsoinv.HostRecord{RunID: second, Device: "r2"}))
	// neither field set, nothing happens
	require.NoError(t, DeleteRecords(path, nsoinv.HostRecord{}))

	records, err := GetRecords(path, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, second, r.RunID)
		assert.NotEqual(t, "r2", r.Device)
	}
}

func TestMissingHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := GetRecords(path, "")
	assert.Error(t, err)
	assert.Error(t, DeleteRecords(path, nsoinv.HostRecord{RunID: "x"}))
	assert.NoFileExists(t, path)

	// an empty run does not create the database either
	require.NoError(t, InsertRecords(path))
	assert.NoFileExists(t, path)
}

func TestInsertCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nsoinv", "history.db")
	require.NoError(t, InsertRecords(path, sampleReport().Records(uuid.NewString(), time.Now().UTC())...))
	assert.FileExists(t, path)
}
