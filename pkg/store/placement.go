package store

import (
	"context"
	"time"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
)

// PlacementStore is a store for placement metadata, committed splits and
// the contribution data feeding them.
type PlacementStore interface {
	CreatePlacement(ctx context.Context, h db.Handler, p models.Placement) (models.Placement, error)
	GetPlacement(ctx context.Context, h db.Handler, placementID string) (models.Placement, error)
	ListPlacements(ctx context.Context, h db.Handler, team int64) ([]models.Placement, error)

	ClaimPlacement(ctx context.Context, h db.Handler, placementID, batchID string) (bool, error)
	CreatePlacementSplits(ctx context.Context, h db.Handler, splits []models.PlacementSplit) error
	GetPlacementSplits(ctx context.Context, h db.Handler, placementID string) ([]models.PlacementSplit, error)
	ListTeamPlacementSplits(ctx context.Context, h db.Handler, team int64) ([]models.PlacementSplit, error)

	SetStageCredit(ctx context.Context, h db.Handler, placementID, recruiter, stage string, credits int64) error
	ListStageCredits(ctx context.Context, h db.Handler, placementID string) ([]models.StageCredit, error)

	AddSubmission(ctx context.Context, h db.Handler, team int64, candidateRef string, at time.Time) error
	ListSubmissions(ctx context.Context, h db.Handler, team int64) ([]models.Submission, error)
}
