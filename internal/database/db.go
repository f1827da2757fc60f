// Package database is the SQLite store behind the calendar API: a relational
// mirror of the master dataset and precomputed year snapshots.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// =============================================================================
// Database Connection
// =============================================================================

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// DB wraps the standard sql.DB with calendar-specific methods.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or MemoryPath
	MaxOpenConns    int           // Maximum open connections
	MaxIdleConns    int           // Maximum idle connections
	ConnMaxLifetime time.Duration // Connection max lifetime

	// BusyTimeout is how long a writer waits on a locked database. A snapshot
	// save holds the lock while a full year of JSON is written.
	BusyTimeout time.Duration
}

// DefaultConfig returns defaults for SQLite. SQLite allows a single writer,
// and imports and snapshot saves are the only writes, so the pool is capped
// at one connection.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// dsn builds the go-sqlite3 connection string. WAL lets /health and snapshot
// reads run while an import is writing; foreign keys guard the
// commemoration to saint references.
func (c Config) dsn() string {
	q := url.Values{}
	q.Set("_foreign_keys", "ON")
	q.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
	if c.Path != MemoryPath {
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
	}
	return c.Path + "?" + q.Encode()
}

// Open connects to the store, creating its directory when needed. It does
// not migrate; call Migrate before serving from it.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("snapshot store connected",
		slog.String("path", cfg.Path),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Duration("busy_timeout", cfg.BusyTimeout),
	)

	return &DB{
		DB:     db,
		path:   cfg.Path,
		logger: logger,
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Info("closing snapshot store", slog.String("path", db.path))
	return db.DB.Close()
}

// ErrSchemaOutdated is returned by Health when migrations are pending.
var ErrSchemaOutdated = errors.New("schema not migrated")

// Health checks that the store answers and is fully migrated.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version < LatestSchemaVersion {
		return fmt.Errorf("%w: at version %d, want %d", ErrSchemaOutdated, version, LatestSchemaVersion)
	}

	return nil
}

// SchemaVersion returns the highest applied migration, or 0 for a store
// that was never migrated.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("database query failed: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// =============================================================================
// Migrations
// =============================================================================

// Migrate applies pending forward-only migrations in version order inside a
// single transaction and returns how many were applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	db.logger.Info("running database migrations")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create schema_migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := tx.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return 0, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return 0, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate migration versions: %w", err)
	}

	count := 0
	for i, m := range migrations {
		if m.version != i+1 {
			return count, fmt.Errorf("migration %q has version %d, want %d", m.name, m.version, i+1)
		}
		if applied[m.version] {
			db.logger.Debug("migration already applied", slog.Int("version", m.version))
			continue
		}

		db.logger.Info("applying migration",
			slog.Int("version", m.version),
			slog.String("name", m.name),
		)

		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return count, fmt.Errorf("execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.version, m.name,
		)
		if err != nil {
			return count, fmt.Errorf("record migration %d: %w", m.version, err)
		}

		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit migrations: %w", err)
	}

	db.logger.Info("migrations complete",
		slog.Int("applied", count),
		slog.Int("schema_version", LatestSchemaVersion),
	)

	return count, nil
}

// =============================================================================
// Transaction Helpers
// =============================================================================

// Tx is a store transaction. The import upserts are defined on it.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a new transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx runs fn in a transaction, committing on success and rolling back
// when fn returns an error. An import either lands whole or not at all.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// =============================================================================
// Error Types
// =============================================================================

// ErrNotFound is returned when no snapshot exists for a year and language.
var ErrNotFound = errors.New("record not found")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
