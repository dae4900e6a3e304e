// Package migrate applies and rolls back the versioned database schema.
package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/pkg/db"
)

const (
	driverSQLite   = "sqlite"
	driverSQLite3  = "sqlite3"
	driverPostgres = "postgres"
)

// MigrateFunc executes one direction of a migration.
type MigrateFunc func(ctx context.Context, tx *db.Tx) error //nolint:revive

// Migration is a versioned schema change.
type Migration struct {
	Version  int64
	Name     string
	Migrate  MigrateFunc
	Rollback MigrateFunc
}

// Migrations is the database model of an applied migration.
type Migrations struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Version int64  `db:"version"`
}

func (Migrations) schema(driverName string) (string, error) {
	switch driverName {
	case driverSQLite3, driverSQLite:
		return `CREATE TABLE IF NOT EXISTS migrations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				version INTEGER NOT NULL UNIQUE
			);
		`, nil
	case driverPostgres:
		return `CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			version INTEGER NOT NULL UNIQUE
		);
	`, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driverName)
	}
}

// Migrate applies every migration newer than the current version.
func Migrate(ctx context.Context, dbx *db.DB) error {
	logger := log.FromContext(ctx).WithPrefix("migrate")
	return dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		if !hasTable(ctx, tx, "migrations") {
			schema, err := Migrations{}.schema(tx.DriverName())
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, schema); err != nil {
				return err
			}
		}

		current, err := currentVersion(ctx, tx)
		if err != nil {
			return err
		}

		for _, m := range migrations {
			if m.Version <= current {
				continue
			}

			logger.Infof("running migration %d. %s", m.Version, m.Name)
			if err := m.Migrate(ctx, tx); err != nil {
				return fmt.Errorf("migration %d: %w", m.Version, err)
			}

			if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO migrations (name, version) VALUES (?, ?)"), m.Name, m.Version); err != nil {
				return err
			}
		}

		return nil
	})
}

// Rollback rolls back the latest applied migration.
func Rollback(ctx context.Context, dbx *db.DB) error {
	logger := log.FromContext(ctx).WithPrefix("migrate")
	return dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		if !hasTable(ctx, tx, "migrations") {
			return ErrNothingToRollback
		}

		current, err := currentVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current == 0 || len(migrations) < int(current) {
			return ErrNothingToRollback
		}

		m := migrations[current-1]
		logger.Infof("rolling back migration %d. %s", m.Version, m.Name)
		if err := m.Rollback(ctx, tx); err != nil {
			return fmt.Errorf("rollback %d: %w", m.Version, err)
		}

		_, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM migrations WHERE version = ?"), current)
		return err
	})
}

// ErrNothingToRollback is returned by Rollback on an empty schema.
var ErrNothingToRollback = errors.New("there are no migrations to rollback")

// Version returns the latest applied migration version, or zero.
func Version(ctx context.Context, dbx *db.DB) (int64, error) {
	if !hasTable(ctx, dbx, "migrations") {
		return 0, nil
	}
	return currentVersion(ctx, dbx)
}

func currentVersion(ctx context.Context, h db.Handler) (int64, error) {
	var m Migrations
	err := h.GetContext(ctx, &m, h.Rebind("SELECT * FROM migrations ORDER BY version DESC LIMIT 1"))
	if err := db.WrapError(err); err != nil && !errors.Is(err, db.ErrRecordNotFound) {
		return 0, err
	}
	return m.Version, nil
}

func hasTable(ctx context.Context, h db.Handler, tableName string) bool {
	var query string
	switch h.DriverName() {
	case driverSQLite3, driverSQLite:
		query = "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
	case driverPostgres:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?"
	}

	var name string
	err := h.GetContext(ctx, &name, h.Rebind(query), tableName)
	return err == nil
}
