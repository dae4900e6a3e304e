package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/store"
)

var _ store.PlacementStore = (*placementStore)(nil)

type placementStore struct {
	logger *log.Logger
}

// CreatePlacement implements store.PlacementStore.
func (*placementStore) CreatePlacement(ctx context.Context, h db.Handler, p models.Placement) (models.Placement, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query := h.Rebind(`
		INSERT INTO
		  placements (placement_id, team_id, role_id, role_title, role_opened_at, created_at)
		VALUES
		  (?, ?, ?, ?, ?, ?) RETURNING *
	`)
	var m models.Placement
	err := h.GetContext(ctx, &m, query,
		p.PlacementID, p.TeamID, p.RoleID, p.RoleTitle, p.RoleOpenedAt, p.CreatedAt.UTC())
	return m, db.WrapError(err)
}

// GetPlacement implements store.PlacementStore.
func (*placementStore) GetPlacement(ctx context.Context, h db.Handler, placementID string) (models.Placement, error) {
	query := h.Rebind(`SELECT * FROM placements WHERE placement_id = ?`)
	var m models.Placement
	err := h.GetContext(ctx, &m, query, placementID)
	return m, db.WrapError(err)
}

// ListPlacements implements store.PlacementStore.
func (*placementStore) ListPlacements(ctx context.Context, h db.Handler, team int64) ([]models.Placement, error) {
	query := h.Rebind(`SELECT * FROM placements WHERE team_id = ? ORDER BY created_at, id`)
	var ps []models.Placement
	err := h.SelectContext(ctx, &ps, query, team)
	return ps, db.WrapError(err)
}

// ClaimPlacement implements store.PlacementStore. It marks the placement
// as committed by batchID and reports false when another batch already
// holds it. Concurrent claims on the same row serialize on the row lock,
// so at most one succeeds.
func (*placementStore) ClaimPlacement(ctx context.Context, h db.Handler, placementID, batchID string) (bool, error) {
	query := h.Rebind(`
		UPDATE placements SET committed_batch_id = ?
		WHERE placement_id = ? AND committed_batch_id IS NULL
	`)
	res, err := h.ExecContext(ctx, query, batchID, placementID)
	if err != nil {
		return false, db.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CreatePlacementSplits implements store.PlacementStore. Run it inside a
// transaction so the set is written entirely or not at all.
func (s *placementStore) CreatePlacementSplits(ctx context.Context, h db.Handler, splits []models.PlacementSplit) error {
	query := h.Rebind(`
		INSERT INTO
		  placement_splits (batch_id, placement_id, team_id, configuration_id, recruiter_id,
		    split_percentage, split_amount, total_fee, created_at)
		VALUES
		  (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	now := time.Now().UTC()
	for _, sp := range splits {
		if _, err := h.ExecContext(ctx, query,
			sp.BatchID, sp.PlacementID, sp.TeamID, sp.ConfigurationID, sp.RecruiterID,
			sp.SplitPercentage, sp.SplitAmount, sp.TotalFee, now,
		); err != nil {
			return db.WrapError(err)
		}
	}
	s.logger.Debug("placement splits written", "count", len(splits))
	return nil
}

// GetPlacementSplits implements store.PlacementStore.
func (*placementStore) GetPlacementSplits(ctx context.Context, h db.Handler, placementID string) ([]models.PlacementSplit, error) {
	query := h.Rebind(`SELECT * FROM placement_splits WHERE placement_id = ? ORDER BY id`)
	var splits []models.PlacementSplit
	err := h.SelectContext(ctx, &splits, query, placementID)
	return splits, db.WrapError(err)
}

// ListTeamPlacementSplits implements store.PlacementStore.
func (*placementStore) ListTeamPlacementSplits(ctx context.Context, h db.Handler, team int64) ([]models.PlacementSplit, error) {
	query := h.Rebind(`SELECT * FROM placement_splits WHERE team_id = ? ORDER BY id`)
	var splits []models.PlacementSplit
	err := h.SelectContext(ctx, &splits, query, team)
	return splits, db.WrapError(err)
}

// SetStageCredit implements store.PlacementStore.
func (*placementStore) SetStageCredit(ctx context.Context, h db.Handler, placementID, recruiter, stage string, credits int64) error {
	query := h.Rebind(`
		INSERT INTO
		  stage_credits (placement_id, recruiter_id, stage, credits)
		VALUES
		  (?, ?, ?, ?)
		ON CONFLICT (placement_id, recruiter_id, stage) DO UPDATE SET
		  credits = excluded.credits
	`)
	_, err := h.ExecContext(ctx, query, placementID, recruiter, stage, credits)
	return db.WrapError(err)
}

// ListStageCredits implements store.PlacementStore.
func (*placementStore) ListStageCredits(ctx context.Context, h db.Handler, placementID string) ([]models.StageCredit, error) {
	query := h.Rebind(`SELECT * FROM stage_credits WHERE placement_id = ? ORDER BY id`)
	var credits []models.StageCredit
	err := h.SelectContext(ctx, &credits, query, placementID)
	return credits, db.WrapError(err)
}

// AddSubmission implements store.PlacementStore. Submitting the same
// candidate twice counts once.
func (*placementStore) AddSubmission(ctx context.Context, h db.Handler, team int64, candidateRef string, at time.Time) error {
	query := h.Rebind(`
		INSERT INTO
		  submissions (team_id, candidate_ref, submitted_at)
		VALUES
		  (?, ?, ?)
		ON CONFLICT (team_id, candidate_ref) DO NOTHING
	`)
	_, err := h.ExecContext(ctx, query, team, candidateRef, at.UTC())
	return db.WrapError(err)
}

// ListSubmissions implements store.PlacementStore.
func (*placementStore) ListSubmissions(ctx context.Context, h db.Handler, team int64) ([]models.Submission, error) {
	query := h.Rebind(`SELECT * FROM submissions WHERE team_id = ? ORDER BY submitted_at, id`)
	var subs []models.Submission
	err := h.SelectContext(ctx, &subs, query, team)
	return subs, db.WrapError(err)
}
