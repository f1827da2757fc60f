package database

import (
	"database/sql"
	"encoding/json"
	"time"
)

// FeastKind distinguishes the two feast tables of the master dataset.
type FeastKind string

const (
	FeastKindFixed   FeastKind = "fixed"
	FeastKindMovable FeastKind = "movable"
)

// ImportStats counts the rows written by one import.
type ImportStats struct {
	Feasts         int `json:"feasts"`
	Saints         int `json:"saints"`
	Commemorations int `json:"commemorations"`
	FastingPeriods int `json:"fasting_periods"`
	ParamonRules   int `json:"paramon_rules"`
}

// ImportLogEntry is one recorded import run.
type ImportLogEntry struct {
	ID             int64       `json:"id"`
	DatasetVersion string      `json:"dataset_version"`
	Counts         ImportStats `json:"counts"`
	ImportedAt     time.Time   `json:"imported_at"`
}

// Snapshot is a precomputed year of day records in one language. Days holds
// the encoded records exactly as served.
type Snapshot struct {
	Year           int             `json:"year"`
	Lang           string          `json:"lang"`
	DatasetVersion string          `json:"dataset_version"`
	DayCount       int             `json:"day_count"`
	Days           json.RawMessage `json:"days"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	Year           int       `json:"year"`
	Lang           string    `json:"lang"`
	DatasetVersion string    `json:"dataset_version"`
	DayCount       int       `json:"day_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// StoreStats summarises the store for health and admin views.
type StoreStats struct {
	Feasts       int        `json:"feasts"`
	Saints       int        `json:"saints"`
	Snapshots    int        `json:"snapshots"`
	LastImportAt *time.Time `json:"last_import_at,omitempty"`
}

// -----------------------------------------------------------------
// Column helpers
// -----------------------------------------------------------------

// marshalJSON encodes v for a TEXT column, writing "{}" for nil maps.
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "{}", nil
	}
	return string(b), nil
}

// nullInt maps a zero-valued optional integer to NULL.
func nullInt(v int, valid bool) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: valid}
}
