// Package sqlitemigrate applies embedded SQL migrations to a SQLite database.
package sqlitemigrate

import (
	"database/sql"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/charforge/internal/errors"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ApplyMigrations runs every *.sql file under root in name order, skipping
// files already recorded in schema_migrations.
func ApplyMigrations(sqlDB *sql.DB, migrationFS fs.FS, root string) error {
	if sqlDB == nil {
		return errors.InvalidArgument("sql db is required")
	}
	if migrationFS == nil {
		return errors.InvalidArgument("migration fs is required")
	}
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return errors.Wrap(err, "failed to read migrations")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return errors.Wrap(err, "failed to create schema_migrations")
	}

	for _, name := range names {
		applied, err := isApplied(sqlDB, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, name))
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", name)
		}
		if err := apply(sqlDB, name, ExtractUpMigration(string(content))); err != nil {
			return err
		}
	}
	return nil
}

func apply(sqlDB *sql.DB, name, up string) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return errors.Wrapf(err, "failed to begin migration %s", name)
	}
	defer func() { _ = tx.Rollback() }()

	if strings.TrimSpace(up) != "" {
		if _, err := tx.Exec(up); err != nil && !IsAlreadyExistsError(err) {
			return errors.Wrapf(err, "failed to apply migration %s", name)
		}
	}
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		return errors.Wrapf(err, "failed to record migration %s", name)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit migration %s", name)
	}
	return nil
}

func isApplied(sqlDB *sql.DB, name string) (bool, error) {
	var count int
	if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, name).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "failed to check migration %s", name)
	}
	return count > 0, nil
}

// ExtractUpMigration returns the statements between the Up and Down markers.
// Content without an Up marker is returned whole.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(rest, downMarker); downIdx != -1 {
		rest = rest[:downIdx]
	}
	return strings.TrimSpace(rest)
}

// IsAlreadyExistsError reports errors from re-running DDL that already took
// effect.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
}
