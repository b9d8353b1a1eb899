package nsoinv

import (
	"path/filepath"
	"time"
)

const (
	RecordGenerated = "generated"
	RecordFailed    = "failed"
)

// HostRecord is one device outcome of a generate run as kept in the run
// history.
type HostRecord struct {
	RunID     string    `db:"run_id" json:"run_id" yaml:"run_id"`
	Device    string    `db:"device" json:"device" yaml:"device"`
	Status    string    `db:"status" json:"status" yaml:"status"`
	Path      string    `db:"path" json:"path" yaml:"path"`
	Error     string    `db:"error" json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp time.Time `db:"timestamp" json:"timestamp" yaml:"timestamp"`
}

// Records() turns the report into history rows for the run identified by
// runID, generated devices first.
func (r *Report) Records(runID string, timestamp time.Time) []HostRecord {
	records := make([]HostRecord, 0, len(r.Generated)+len(r.Failed))
	for _, device := range r.Generated {
		records = append(records, HostRecord{
			RunID:     runID,
			Device:    device,
			Status:    RecordGenerated,
			Path:      filepath.Join(r.HostVarsDir, device+".yaml"),
			Timestamp: timestamp,
		})
	}
	for _, failure := range r.Failed {
		record := HostRecord{
			RunID:     runID,
			Device:    failure.Device,
			Status:    RecordFailed,
			Timestamp: timestamp,
		}
		if failure.Err != nil {
			record.Error = failure.Err.Error()
		}
		records = append(records, record)
	}
	return records
}
