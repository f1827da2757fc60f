package database

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations lists every schema step in the order it is applied. Versions
// are contiguous from 1.
var migrations = []migration{
	{1, "master_data", migrationV1MasterData},
	{2, "day_snapshots", migrationV2Snapshots},
}

// LatestSchemaVersion is the version a fully migrated store reports.
var LatestSchemaVersion = migrations[len(migrations)-1].version

// migrationV1MasterData mirrors the master dataset relationally.
//
// Locale-tagged text is stored as a JSON object ({"ar": "...", "fr": "..."})
// so new locales never need a schema change. Rows are keyed by their dataset
// codes so a re-import upserts in place.
const migrationV1MasterData = `
-- Migration 001: master dataset mirror

-- ============================================================================
-- Table: feasts
-- ============================================================================
-- Fixed feasts carry a Coptic day/month, movable feasts an offset from Pascha.
-- ============================================================================
CREATE TABLE IF NOT EXISTS feasts (
    code TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('fixed', 'movable')),
    rank TEXT NOT NULL DEFAULT '',

    coptic_day INTEGER,
    coptic_month INTEGER CHECK (coptic_month BETWEEN 1 AND 13),
    monthly INTEGER NOT NULL DEFAULT 0,
    offset_days INTEGER,

    title TEXT NOT NULL DEFAULT '{}',
    summary TEXT NOT NULL DEFAULT '{}',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    CHECK (
        (kind = 'fixed' AND coptic_day IS NOT NULL AND coptic_month IS NOT NULL) OR
        (kind = 'movable' AND offset_days IS NOT NULL)
    )
);

CREATE INDEX IF NOT EXISTS idx_feasts_coptic
    ON feasts(coptic_month, coptic_day)
    WHERE kind = 'fixed';

-- ============================================================================
-- Table: saints
-- ============================================================================
CREATE TABLE IF NOT EXISTS saints (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '{}',
    summary TEXT NOT NULL DEFAULT '{}',
    coptic_day INTEGER NOT NULL,
    coptic_month INTEGER NOT NULL CHECK (coptic_month BETWEEN 1 AND 13),
    reliability TEXT NOT NULL DEFAULT 'medium',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- ============================================================================
-- Table: commemorations
-- ============================================================================
-- One row per saint listed on a Coptic day.
-- ============================================================================
CREATE TABLE IF NOT EXISTS commemorations (
    coptic_day INTEGER NOT NULL,
    coptic_month INTEGER NOT NULL,
    saint_id TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 1,

    PRIMARY KEY (coptic_month, coptic_day, saint_id),
    FOREIGN KEY (saint_id) REFERENCES saints(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_commemorations_saint
    ON commemorations(saint_id);

-- ============================================================================
-- Table: fasting_periods
-- ============================================================================
-- Boundaries are stored as JSON: {"type": ..., "offset": ..., "day": ..., "month": ...}
-- ============================================================================
CREATE TABLE IF NOT EXISTS fasting_periods (
    code TEXT PRIMARY KEY,
    start_boundary TEXT NOT NULL,
    end_boundary TEXT NOT NULL,
    intensity TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '{}',
    position INTEGER NOT NULL,

    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- ============================================================================
-- Table: paramon_rules
-- ============================================================================
-- mapping is a JSON object of weekday code to day offsets.
-- ============================================================================
CREATE TABLE IF NOT EXISTS paramon_rules (
    code TEXT PRIMARY KEY,
    feast_code TEXT NOT NULL,
    feast_day INTEGER NOT NULL,
    feast_month INTEGER NOT NULL,
    mapping TEXT NOT NULL DEFAULT '{}',

    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- ============================================================================
-- Table: dataset_imports
-- ============================================================================
-- One row per import run, for auditing what was loaded and when.
-- ============================================================================
CREATE TABLE IF NOT EXISTS dataset_imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dataset_version TEXT NOT NULL DEFAULT '',
    feasts INTEGER NOT NULL DEFAULT 0,
    saints INTEGER NOT NULL DEFAULT 0,
    commemorations INTEGER NOT NULL DEFAULT 0,
    fasting_periods INTEGER NOT NULL DEFAULT 0,
    paramon_rules INTEGER NOT NULL DEFAULT 0,
    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2Snapshots stores precomputed year caches. A snapshot is the JSON
// array of day records for one civil year in one language, tagged with the
// dataset version it was computed from.
const migrationV2Snapshots = `
-- Migration 002: year snapshots

CREATE TABLE IF NOT EXISTS day_snapshots (
    year INTEGER NOT NULL,
    lang TEXT NOT NULL,
    dataset_version TEXT NOT NULL DEFAULT '',
    day_count INTEGER NOT NULL,
    days TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),

    PRIMARY KEY (year, lang)
);
`
