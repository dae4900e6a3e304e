package migrate

import (
	"context"

	"github.com/hirewell/revshare/pkg/db"
)

const (
	addPlacementCommitGuardName    = "add placement commit guard"
	addPlacementCommitGuardVersion = 3
)

// addPlacementCommitGuard records on the placement row which batch owns
// its committed splits, backfilling placements committed before.
var addPlacementCommitGuard = Migration{
	Version: addPlacementCommitGuardVersion,
	Name:    addPlacementCommitGuardName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		return migrateUp(ctx, tx, addPlacementCommitGuardVersion, addPlacementCommitGuardName)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return migrateDown(ctx, tx, addPlacementCommitGuardVersion, addPlacementCommitGuardName)
	},
}
