package migrate

import (
	"context"

	"github.com/hirewell/revshare/pkg/db"
)

const (
	createTablesName    = "create tables"
	createTablesVersion = 1
)

// createTables creates teams, members, split configurations and
// committed placement splits.
var createTables = Migration{
	Version: createTablesVersion,
	Name:    createTablesName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		return migrateUp(ctx, tx, createTablesVersion, createTablesName)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return migrateDown(ctx, tx, createTablesVersion, createTablesName)
	},
}
