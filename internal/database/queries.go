package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// =============================================================================
// Master Data Import
// =============================================================================

// ImportMaster upserts the whole dataset in one transaction and records the
// run in dataset_imports. Re-importing the same dataset is a no-op apart from
// updated_at and the log row.
func (db *DB) ImportMaster(ctx context.Context, m *dataset.Master) (*ImportStats, error) {
	stats := &ImportStats{}

	err := db.WithTx(ctx, func(tx *Tx) error {
		for _, f := range m.FixedFeasts {
			if err := tx.upsertFeast(ctx, f.Code, FeastKindFixed, f.Rank,
				nullInt(f.CopticDay, true), nullInt(f.CopticMonth, true), f.IsMonthly(),
				nullInt(0, false), f.Title, f.Summary); err != nil {
				return err
			}
			stats.Feasts++
		}
		for _, f := range m.MovableFeasts {
			if err := tx.upsertFeast(ctx, f.Code, FeastKindMovable, f.Rank,
				nullInt(0, false), nullInt(0, false), false,
				nullInt(f.OffsetDays, true), f.Title, f.Summary); err != nil {
				return err
			}
			stats.Feasts++
		}

		for _, s := range m.Saints {
			if err := tx.upsertSaint(ctx, s); err != nil {
				return err
			}
			stats.Saints++
		}

		for _, c := range m.Commemorations {
			for i, id := range c.Saints {
				if err := tx.upsertCommemoration(ctx, c.CopticDay, c.CopticMonth, id, i+1); err != nil {
					return err
				}
				stats.Commemorations++
			}
		}

		for i, p := range m.FastingPeriods {
			if err := tx.upsertFastingPeriod(ctx, p, i+1); err != nil {
				return err
			}
			stats.FastingPeriods++
		}

		for _, r := range m.ParamonRules {
			if err := tx.upsertParamonRule(ctx, r); err != nil {
				return err
			}
			stats.ParamonRules++
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO dataset_imports (
				dataset_version, feasts, saints, commemorations, fasting_periods, paramon_rules
			) VALUES (?, ?, ?, ?, ?, ?)
		`, m.Version, stats.Feasts, stats.Saints, stats.Commemorations, stats.FastingPeriods, stats.ParamonRules)
		if err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.logger.Info("master data imported",
		"version", m.Version,
		"feasts", stats.Feasts,
		"saints", stats.Saints,
		"commemorations", stats.Commemorations,
	)
	return stats, nil
}

func (tx *Tx) upsertFeast(ctx context.Context, code string, kind FeastKind, rank string,
	day, month sql.NullInt64, monthly bool, offset sql.NullInt64, title, summary dataset.Text) error {
	titleJSON, err := marshalJSON(title)
	if err != nil {
		return fmt.Errorf("marshal title of %s: %w", code, err)
	}
	summaryJSON, err := marshalJSON(summary)
	if err != nil {
		return fmt.Errorf("marshal summary of %s: %w", code, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO feasts (
			code, kind, rank, coptic_day, coptic_month, monthly, offset_days, title, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			kind = excluded.kind,
			rank = excluded.rank,
			coptic_day = excluded.coptic_day,
			coptic_month = excluded.coptic_month,
			monthly = excluded.monthly,
			offset_days = excluded.offset_days,
			title = excluded.title,
			summary = excluded.summary,
			updated_at = datetime('now')
	`, code, kind, rank, day, month, monthly, offset, titleJSON, summaryJSON)
	if err != nil {
		return fmt.Errorf("upsert feast %s: %w", code, err)
	}
	return nil
}

func (tx *Tx) upsertSaint(ctx context.Context, s dataset.Saint) error {
	nameJSON, err := marshalJSON(s.Name)
	if err != nil {
		return fmt.Errorf("marshal name of %s: %w", s.ID, err)
	}
	summaryJSON, err := marshalJSON(s.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary of %s: %w", s.ID, err)
	}

	reliability := s.Reliability
	if reliability == "" {
		reliability = dataset.DefaultReliability
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saints (
			id, type, name, summary, coptic_day, coptic_month, reliability
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			summary = excluded.summary,
			coptic_day = excluded.coptic_day,
			coptic_month = excluded.coptic_month,
			reliability = excluded.reliability,
			updated_at = datetime('now')
	`, s.ID, s.Type, nameJSON, summaryJSON, s.CopticDay, s.CopticMonth, reliability)
	if err != nil {
		return fmt.Errorf("upsert saint %s: %w", s.ID, err)
	}
	return nil
}

func (tx *Tx) upsertCommemoration(ctx context.Context, day, month int, saintID string, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO commemorations (coptic_day, coptic_month, saint_id, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(coptic_month, coptic_day, saint_id) DO UPDATE SET
			position = excluded.position
	`, day, month, saintID, position)
	if err != nil {
		return fmt.Errorf("upsert commemoration %d/%d %s: %w", day, month, saintID, err)
	}
	return nil
}

func (tx *Tx) upsertFastingPeriod(ctx context.Context, p dataset.FastingPeriod, position int) error {
	startJSON, err := marshalJSON(p.Start)
	if err != nil {
		return fmt.Errorf("marshal start of %s: %w", p.Code, err)
	}
	endJSON, err := marshalJSON(p.End)
	if err != nil {
		return fmt.Errorf("marshal end of %s: %w", p.Code, err)
	}
	titleJSON, err := marshalJSON(p.Title)
	if err != nil {
		return fmt.Errorf("marshal title of %s: %w", p.Code, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fasting_periods (
			code, start_boundary, end_boundary, intensity, title, position
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			start_boundary = excluded.start_boundary,
			end_boundary = excluded.end_boundary,
			intensity = excluded.intensity,
			title = excluded.title,
			position = excluded.position,
			updated_at = datetime('now')
	`, p.Code, startJSON, endJSON, p.Intensity, titleJSON, position)
	if err != nil {
		return fmt.Errorf("upsert fasting period %s: %w", p.Code, err)
	}
	return nil
}

func (tx *Tx) upsertParamonRule(ctx context.Context, r dataset.ParamonRule) error {
	mappingJSON, err := marshalJSON(r.Mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping of %s: %w", r.Code, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO paramon_rules (code, feast_code, feast_day, feast_month, mapping)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			feast_code = excluded.feast_code,
			feast_day = excluded.feast_day,
			feast_month = excluded.feast_month,
			mapping = excluded.mapping,
			updated_at = datetime('now')
	`, r.Code, r.FeastCode, r.FeastDay, r.FeastMonth, mappingJSON)
	if err != nil {
		return fmt.Errorf("upsert paramon rule %s: %w", r.Code, err)
	}
	return nil
}

// GetRecentImports returns the latest import runs, newest first.
func (db *DB) GetRecentImports(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, dataset_version, feasts, saints, commemorations,
		       fasting_periods, paramon_rules, imported_at
		FROM dataset_imports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	entries := []ImportLogEntry{}
	for rows.Next() {
		var e ImportLogEntry
		var importedAt sql.NullString
		if err := rows.Scan(&e.ID, &e.DatasetVersion,
			&e.Counts.Feasts, &e.Counts.Saints, &e.Counts.Commemorations,
			&e.Counts.FastingPeriods, &e.Counts.ParamonRules, &importedAt); err != nil {
			return nil, fmt.Errorf("scan import row: %w", err)
		}
		if t := parseTimestamp(importedAt); t != nil {
			e.ImportedAt = *t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import rows: %w", err)
	}

	return entries, nil
}

// CommemorationIDs returns the saint ids stored for a Coptic day/month in
// listing order.
func (db *DB) CommemorationIDs(ctx context.Context, day, month int) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT saint_id FROM commemorations
		WHERE coptic_day = ? AND coptic_month = ?
		ORDER BY position ASC
	`, day, month)
	if err != nil {
		return nil, fmt.Errorf("query commemorations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan commemoration: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =============================================================================
// Year Snapshots
// =============================================================================

// SaveSnapshot inserts or replaces the snapshot for (year, lang).
func (db *DB) SaveSnapshot(ctx context.Context, s *Snapshot) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO day_snapshots (year, lang, dataset_version, day_count, days)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year, lang) DO UPDATE SET
			dataset_version = excluded.dataset_version,
			day_count = excluded.day_count,
			days = excluded.days,
			created_at = datetime('now')
	`, s.Year, s.Lang, s.DatasetVersion, s.DayCount, string(s.Days))
	if err != nil {
		return fmt.Errorf("save snapshot %d/%s: %w", s.Year, s.Lang, err)
	}
	return nil
}

// GetSnapshot returns the stored snapshot for (year, lang), or ErrNotFound.
func (db *DB) GetSnapshot(ctx context.Context, year int, lang string) (*Snapshot, error) {
	var s Snapshot
	var days string
	var createdAt sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT year, lang, dataset_version, day_count, days, created_at
		FROM day_snapshots
		WHERE year = ? AND lang = ?
	`, year, lang).Scan(&s.Year, &s.Lang, &s.DatasetVersion, &s.DayCount, &days, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query snapshot %d/%s: %w", year, lang, err)
	}

	s.Days = []byte(days)
	if t := parseTimestamp(createdAt); t != nil {
		s.CreatedAt = *t
	}
	return &s, nil
}

// ListSnapshots describes every stored snapshot, ordered by year then lang.
func (db *DB) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT year, lang, dataset_version, day_count, created_at
		FROM day_snapshots
		ORDER BY year ASC, lang ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	infos := []SnapshotInfo{}
	for rows.Next() {
		var info SnapshotInfo
		var createdAt sql.NullString
		if err := rows.Scan(&info.Year, &info.Lang, &info.DatasetVersion, &info.DayCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if t := parseTimestamp(createdAt); t != nil {
			info.CreatedAt = *t
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return infos, nil
}

// DeleteSnapshot removes the snapshot for (year, lang).
// Returns ErrNotFound if there is none.
func (db *DB) DeleteSnapshot(ctx context.Context, year int, lang string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM day_snapshots WHERE year = ? AND lang = ?`, year, lang)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStats returns row counts and the time of the latest import.
func (db *DB) GetStats(ctx context.Context) (*StoreStats, error) {
	var stats StoreStats
	var lastImport sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM feasts),
			(SELECT COUNT(*) FROM saints),
			(SELECT COUNT(*) FROM day_snapshots),
			(SELECT MAX(imported_at) FROM dataset_imports)
	`).Scan(&stats.Feasts, &stats.Saints, &stats.Snapshots, &lastImport)
	if err != nil {
		return nil, fmt.Errorf("query store stats: %w", err)
	}

	stats.LastImportAt = parseTimestamp(lastImport)
	return &stats, nil
}
