package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/hirewell/revshare/pkg/analytics"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/split"
)

// ComputeAnalytics aggregates the committed splits of a team over
// [start, end). Concurrent identical requests share one computation.
func (d *Backend) ComputeAnalytics(ctx context.Context, teamID int64, start, end time.Time) (analytics.TeamAnalytics, error) {
	if !start.Before(end) {
		return analytics.TeamAnalytics{}, split.ValidationErrors{{
			Field:   "end",
			Message: "must be after start",
		}}
	}

	// The flight outlives any single caller, so it runs detached from
	// cancellation and each caller stops waiting on its own context.
	key := fmt.Sprintf("%d:%d:%d", teamID, start.UnixNano(), end.UnixNano())
	flightCtx := context.WithoutCancel(ctx)
	ch := d.flight.DoChan(key, func() (interface{}, error) {
		return d.computeAnalytics(flightCtx, teamID, start, end)
	})
	select {
	case <-ctx.Done():
		return analytics.TeamAnalytics{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return analytics.TeamAnalytics{}, res.Err
		}
		if res.Shared {
			d.logger.Debug("analytics shared", "team", teamID)
		}
		return res.Val.(analytics.TeamAnalytics), nil
	}
}

func (d *Backend) computeAnalytics(ctx context.Context, teamID int64, start, end time.Time) (analytics.TeamAnalytics, error) {
	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return analytics.TeamAnalytics{}, err
	}

	metas, err := d.placements.PlacementsInPeriod(ctx, teamID, start, end)
	if err != nil {
		return analytics.TeamAnalytics{}, fmt.Errorf("placements: %w", err)
	}
	rows, err := d.store.ListTeamPlacementSplits(ctx, d.db, teamID)
	if err != nil {
		return analytics.TeamAnalytics{}, fmt.Errorf("placement splits: %w", err)
	}

	in := analytics.Input{
		Placements: make([]analytics.Placement, len(metas)),
		Splits:     make([]analytics.Split, len(rows)),
	}
	for i, m := range metas {
		in.Placements[i] = analytics.Placement{
			PlacementID:  m.PlacementID,
			RoleID:       m.RoleID,
			RoleTitle:    m.RoleTitle,
			CreatedAt:    m.CreatedAt,
			RoleOpenedAt: m.RoleOpenedAt,
		}
	}
	for i, r := range rows {
		in.Splits[i] = analytics.Split{
			PlacementID: r.PlacementID,
			RecruiterID: r.RecruiterID,
			Amount:      money.Money(r.SplitAmount),
		}
	}

	count, ok, err := d.submissions.SubmissionsInPeriod(ctx, teamID, start, end)
	if err != nil {
		return analytics.TeamAnalytics{}, fmt.Errorf("submissions: %w", err)
	}
	if ok {
		in.Submissions = &count
	}

	return analytics.Aggregate(teamID, start, end, in), nil
}
