package store

import (
	"database/sql"
	"fmt"

	"github.com/bytebender77/healthguide/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanTemperature scans a TemperatureReading from sql.Rows.
func scanTemperature(rows *sql.Rows) (models.TemperatureReading, error) {
	var r models.TemperatureReading
	var notes sql.NullString
	err := rows.Scan(&r.ID, &r.SessionID, &r.Temperature, &r.Unit, &r.RecordedAt, &notes)
	if err != nil {
		return r, fmt.Errorf("scan temperature reading failed: %w", err)
	}
	r.Notes = notes.String
	return r, nil
}
