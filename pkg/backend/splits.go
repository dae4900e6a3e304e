package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

// CalculateSplits computes the distribution of totalFee for a recorded
// placement without committing it. configID selects a configuration of the
// team; nil uses the team default.
func (d *Backend) CalculateSplits(ctx context.Context, teamID int64, placementID string, totalFee money.Money, configID *int64) (proto.SplitSet, error) {
	team, err := d.team(ctx, d.db, teamID)
	if err != nil {
		return proto.SplitSet{}, err
	}
	if proto.TeamStatus(team.Status) == proto.TeamSuspended {
		return proto.SplitSet{}, proto.ErrTeamSuspended
	}
	if _, err := d.placement(ctx, teamID, placementID); err != nil {
		return proto.SplitSet{}, err
	}

	cfg, err := d.resolveConfiguration(ctx, teamID, configID)
	if err != nil {
		return proto.SplitSet{}, err
	}

	contributors, err := d.contributors(ctx, teamID, placementID, cfg)
	if err != nil {
		return proto.SplitSet{}, err
	}

	shares, err := split.Calculate(cfg.Model, cfg.Config, contributors, totalFee,
		split.WithEmptyTierPolicy(d.policy))
	calculationCounter.WithLabelValues(string(cfg.Model), resultLabel(err)).Inc()
	if err != nil {
		var rerr *split.RoundingInvariantViolation
		if errors.As(err, &rerr) {
			roundingViolationCounter.Inc()
			d.logger.Error("rounding invariant violated",
				"team", teamID,
				"placement", placementID,
				"configuration", cfg.ID,
				"model", cfg.Model,
				"total_fee", totalFee.Units(),
				"err", err,
			)
		}
		return proto.SplitSet{}, err
	}

	set := proto.SplitSet{
		PlacementID:     placementID,
		TeamID:          teamID,
		ConfigurationID: cfg.ID,
		TotalFee:        totalFee,
		Splits:          make([]proto.PlacementSplit, len(shares)),
	}
	for i, s := range shares {
		set.Splits[i] = proto.PlacementSplit{
			PlacementID:     placementID,
			TeamID:          teamID,
			ConfigurationID: cfg.ID,
			RecruiterID:     s.RecruiterID,
			SplitPercentage: s.Percentage,
			SplitAmount:     s.Amount,
		}
	}
	return set, nil
}

// CommitSplits calculates and stores the split set of a placement in one
// transaction. Committing an identical set again returns the stored set;
// a different set for a committed placement is a *proto.ConflictError.
func (d *Backend) CommitSplits(ctx context.Context, teamID int64, placementID string, totalFee money.Money, configID *int64) (proto.SplitSet, error) {
	set, err := d.CalculateSplits(ctx, teamID, placementID, totalFee, configID)
	if err != nil {
		return proto.SplitSet{}, err
	}

	batch := uuid.NewString()
	rows := make([]models.PlacementSplit, len(set.Splits))
	for i, s := range set.Splits {
		rows[i] = models.PlacementSplit{
			BatchID:         batch,
			PlacementID:     placementID,
			TeamID:          teamID,
			ConfigurationID: set.ConfigurationID,
			RecruiterID:     s.RecruiterID,
			SplitPercentage: s.SplitPercentage.BasisPoints(),
			SplitAmount:     s.SplitAmount.Units(),
			TotalFee:        totalFee.Units(),
		}
	}

	var (
		stored  proto.SplitSet
		created bool
	)
	err = d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		// The claim serializes commits of one placement: a concurrent
		// commit blocks on the row until this transaction ends, then
		// finds it claimed.
		claimed, err := d.store.ClaimPlacement(ctx, tx, placementID, batch)
		if err != nil {
			return err
		}
		if claimed {
			if err := d.store.CreatePlacementSplits(ctx, tx, rows); err != nil {
				return err
			}
			created = true
		}
		existing, err := d.store.GetPlacementSplits(ctx, tx, placementID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return fmt.Errorf("placement %q is claimed but has no committed splits", placementID)
		}
		stored = splitSetFromModels(existing)
		return nil
	})
	if err != nil {
		commitCounter.WithLabelValues("error").Inc()
		return proto.SplitSet{}, err
	}

	if created {
		commitCounter.WithLabelValues("created").Inc()
		committedFeeCounter.Add(float64(totalFee.Units()))
		d.logger.Info("placement splits committed",
			"team", teamID,
			"placement", placementID,
			"configuration", set.ConfigurationID,
			"batch", stored.BatchID,
			"splits", len(stored.Splits),
		)
		return stored, nil
	}

	if !sameSplits(set, stored) {
		commitCounter.WithLabelValues("conflict").Inc()
		return proto.SplitSet{}, &proto.ConflictError{
			Reason: fmt.Sprintf("placement %q already has a different committed split", placementID),
		}
	}
	commitCounter.WithLabelValues("unchanged").Inc()
	return stored, nil
}

// PlacementSplits returns the committed split set of a placement.
func (d *Backend) PlacementSplits(ctx context.Context, teamID int64, placementID string) (proto.SplitSet, error) {
	if _, err := d.placement(ctx, teamID, placementID); err != nil {
		return proto.SplitSet{}, err
	}
	rows, err := d.store.GetPlacementSplits(ctx, d.db, placementID)
	if err != nil {
		return proto.SplitSet{}, err
	}
	if len(rows) == 0 {
		return proto.SplitSet{}, proto.ErrSplitsNotFound
	}
	return splitSetFromModels(rows), nil
}

// resolveConfiguration returns the explicit configuration, which must
// belong to the team, or the team default.
func (d *Backend) resolveConfiguration(ctx context.Context, teamID int64, configID *int64) (proto.SplitConfiguration, error) {
	if configID == nil {
		return d.DefaultConfiguration(ctx, teamID)
	}
	c, err := d.configuration(ctx, d.db, *configID)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	if c.TeamID != teamID {
		return proto.SplitConfiguration{}, &proto.ConflictError{
			Reason: fmt.Sprintf("configuration %d does not belong to team %d", c.ID, teamID),
		}
	}
	return c, nil
}

// contributors builds the calculator input from the active members and,
// when the model needs them, their contribution weights.
func (d *Backend) contributors(ctx context.Context, teamID int64, placementID string, cfg proto.SplitConfiguration) ([]split.Contributor, error) {
	members, err := d.members.ActiveMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("active members: %w", err)
	}

	contributors := make([]split.Contributor, len(members))
	for i, m := range members {
		contributors[i] = split.Contributor{
			RecruiterID: m.RecruiterID,
			MemberRole:  m.Role,
		}
	}

	var credit *split.Config
	switch cfg.Model {
	case split.IndividualCredit:
		credit = &cfg.Config
	case split.Hybrid:
		credit = cfg.Config.Credit
	}
	if credit == nil {
		return contributors, nil
	}

	switch credit.Basis {
	case split.StageCreditsBasis:
		credits, err := d.credits.StageCreditsFor(ctx, placementID)
		if err != nil {
			return nil, fmt.Errorf("stage credits: %w", err)
		}
		for i := range contributors {
			w, err := split.StageCreditWeight(*credit, credits[contributors[i].RecruiterID])
			if err != nil {
				return nil, err
			}
			contributors[i].Weight = w
		}
	default:
		weights, err := d.weights.WeightsFor(ctx, placementID)
		if err != nil {
			return nil, fmt.Errorf("contribution weights: %w", err)
		}
		for i := range contributors {
			contributors[i].Weight = weights[contributors[i].RecruiterID]
		}
	}
	return contributors, nil
}

// sameSplits reports whether a calculated set matches a stored one.
func sameSplits(calculated, stored proto.SplitSet) bool {
	if calculated.ConfigurationID != stored.ConfigurationID ||
		calculated.TotalFee != stored.TotalFee ||
		len(calculated.Splits) != len(stored.Splits) {
		return false
	}
	want := make(map[string]proto.PlacementSplit, len(stored.Splits))
	for _, s := range stored.Splits {
		want[s.RecruiterID] = s
	}
	for _, s := range calculated.Splits {
		w, ok := want[s.RecruiterID]
		if !ok || w.SplitAmount != s.SplitAmount || w.SplitPercentage != s.SplitPercentage {
			return false
		}
	}
	return true
}
