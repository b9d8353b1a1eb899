package sqlite

import (
	"fmt"
	"path/filepath"
	"strings"

	nsoinv "github.com/OpenCHAMI/nsoinv/internal"
	"github.com/OpenCHAMI/nsoinv/internal/util"
	"github.com/rs/zerolog/log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const TABLE_NAME = "nsoinv_generated_hosts"

func CreateHistoryIfNotExists(path string) (*sqlx.DB, error) {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		run_id 		TEXT NOT NULL,
		device 		TEXT NOT NULL,
		status 		TEXT NOT NULL,
		path 		TEXT,
		error 		TEXT,
		timestamp 	TIMESTAMP,
		PRIMARY KEY (run_id, device)
	);
	`, TABLE_NAME)
	if err := util.EnsureDirectory(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return db, nil
}

func InsertRecords(path string, records ...nsoinv.HostRecord) error {
	if len(records) == 0 {
		return nil
	}

	// create database if it doesn't already exist
	db, err := CreateHistoryIfNotExists(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	sql := fmt.Sprintf(`INSERT OR REPLACE INTO %s (run_id, device, status, path, error, timestamp)
		VALUES (:run_id, :device, :status, :path, :error, :timestamp);`, TABLE_NAME)
	for _, record := range records {
		if _, err := tx.NamedExec(sql, &record); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record for %s: %w", record.Device, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteRecords() removes rows matching the run ID and/or device of each
// filter. Filters with neither set are ignored.
func DeleteRecords(path string, filters ...nsoinv.HostRecord) error {
	if len(filters) == 0 {
		return fmt.Errorf("no records to delete")
	}
	if _, exists := util.PathExists(path); !exists {
		return fmt.Errorf("no history found at %s", path)
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, filter := range filters {
		where := []string{}
		if filter.RunID != "" {
			where = append(where, "run_id=:run_id")
		}
		if filter.Device != "" {
			where = append(where, "device=:device")
		}
		if len(where) <= 0 {
			continue
		}
		sql := fmt.Sprintf(`DELETE FROM %s WHERE %s;`, TABLE_NAME, strings.Join(where, " AND "))
		if _, err := tx.NamedExec(sql, &filter); err != nil {
			log.Warn().Err(err).Str("run", filter.RunID).Str("device", filter.Device).Msg("failed to delete records")
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecords() returns the history ordered by time, optionally limited to a
// single run.
func GetRecords(path string, runID string) ([]nsoinv.HostRecord, error) {
	// check if path exists first to prevent creating the database
	if _, exists := util.PathExists(path); !exists {
		return nil, fmt.Errorf("no history found at %s", path)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	results := []nsoinv.HostRecord{}
	query := fmt.Sprintf("SELECT run_id, device, status, path, error, timestamp FROM %s", TABLE_NAME)
	if runID != "" {
		err = db.Select(&results, query+" WHERE run_id=? ORDER BY timestamp ASC, rowid ASC;", runID)
	} else {
		err = db.Select(&results, query+" ORDER BY timestamp ASC, rowid ASC;")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve records: %w", err)
	}
	return results, nil
}
