package migrate

import (
	"context"

	"github.com/hirewell/revshare/pkg/db"
)

const (
	createPlacementsName    = "create placements"
	createPlacementsVersion = 2
)

// createPlacements creates placement metadata, committed splits, stage
// credits and submissions.
var createPlacements = Migration{
	Version: createPlacementsVersion,
	Name:    createPlacementsName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		return migrateUp(ctx, tx, createPlacementsVersion, createPlacementsName)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return migrateDown(ctx, tx, createPlacementsVersion, createPlacementsName)
	},
}
