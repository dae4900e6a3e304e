package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

// MembershipProvider supplies the active members of a team.
type MembershipProvider interface {
	ActiveMembers(ctx context.Context, teamID int64) ([]proto.Member, error)
}

// ConfigurationStore resolves and saves split configurations. The Backend
// implements it.
type ConfigurationStore interface {
	Configuration(ctx context.Context, id int64) (proto.SplitConfiguration, error)
	DefaultConfiguration(ctx context.Context, teamID int64) (proto.SplitConfiguration, error)
	SaveConfiguration(ctx context.Context, cfg proto.SplitConfiguration) (proto.SplitConfiguration, error)
}

// WeightSource supplies contribution weights for individual credit and
// hybrid configurations using the contribution_weight basis.
type WeightSource interface {
	WeightsFor(ctx context.Context, placementID string) (map[string]int64, error)
}

// StageCreditSource supplies per-stage credits, keyed by recruiter then
// stage, for the stage_credits basis.
type StageCreditSource interface {
	StageCreditsFor(ctx context.Context, placementID string) (map[string]map[string]int64, error)
}

// PlacementSource supplies placement and role metadata for analytics.
type PlacementSource interface {
	PlacementsInPeriod(ctx context.Context, teamID int64, start, end time.Time) ([]proto.PlacementMeta, error)
}

// SubmissionSource supplies the number of candidate submissions of a team
// in a period. ok is false when the count is unavailable.
type SubmissionSource interface {
	SubmissionsInPeriod(ctx context.Context, teamID int64, start, end time.Time) (count int64, ok bool, err error)
}

var _ ConfigurationStore = (*Backend)(nil)

// dbSource implements the external sources on top of the store.
type dbSource struct {
	b *Backend
}

var (
	_ MembershipProvider = (*dbSource)(nil)
	_ WeightSource       = (*dbSource)(nil)
	_ StageCreditSource  = (*dbSource)(nil)
	_ PlacementSource    = (*dbSource)(nil)
	_ SubmissionSource   = (*dbSource)(nil)
)

// ActiveMembers implements MembershipProvider.
func (s *dbSource) ActiveMembers(ctx context.Context, teamID int64) ([]proto.Member, error) {
	ms, err := s.b.store.ListTeamMembers(ctx, s.b.db, teamID, string(proto.MemberActive))
	if err != nil {
		return nil, err
	}
	members := make([]proto.Member, len(ms))
	for i, m := range ms {
		members[i] = memberFromModel(m)
	}
	return members, nil
}

// WeightsFor implements WeightSource. A recruiter's weight is the sum of
// their recorded stage credits.
func (s *dbSource) WeightsFor(ctx context.Context, placementID string) (map[string]int64, error) {
	credits, err := s.b.store.ListStageCredits(ctx, s.b.db, placementID)
	if err != nil {
		return nil, err
	}
	weights := make(map[string]int64)
	for _, c := range credits {
		w, ok := split.AddWeight(weights[c.RecruiterID], c.Credits)
		if !ok {
			return nil, split.ValidationErrors{{
				Field:   "stage_credits",
				Message: fmt.Sprintf("credits for %s overflow", c.RecruiterID),
			}}
		}
		weights[c.RecruiterID] = w
	}
	return weights, nil
}

// StageCreditsFor implements StageCreditSource.
func (s *dbSource) StageCreditsFor(ctx context.Context, placementID string) (map[string]map[string]int64, error) {
	credits, err := s.b.store.ListStageCredits(ctx, s.b.db, placementID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]int64)
	for _, c := range credits {
		if out[c.RecruiterID] == nil {
			out[c.RecruiterID] = make(map[string]int64)
		}
		out[c.RecruiterID][c.Stage] = c.Credits
	}
	return out, nil
}

// PlacementsInPeriod implements PlacementSource.
func (s *dbSource) PlacementsInPeriod(ctx context.Context, teamID int64, start, end time.Time) ([]proto.PlacementMeta, error) {
	ps, err := s.b.store.ListPlacements(ctx, s.b.db, teamID)
	if err != nil {
		return nil, err
	}
	var out []proto.PlacementMeta
	for _, p := range ps {
		if inPeriod(p.CreatedAt, start, end) {
			out = append(out, placementFromModel(p))
		}
	}
	return out, nil
}

// SubmissionsInPeriod implements SubmissionSource. Teams that never
// recorded a submission report the count as unavailable.
func (s *dbSource) SubmissionsInPeriod(ctx context.Context, teamID int64, start, end time.Time) (int64, bool, error) {
	subs, err := s.b.store.ListSubmissions(ctx, s.b.db, teamID)
	if err != nil {
		return 0, false, err
	}
	if len(subs) == 0 {
		return 0, false, nil
	}
	var n int64
	for _, sub := range subs {
		if inPeriod(sub.SubmittedAt, start, end) {
			n++
		}
	}
	return n, true, nil
}

// inPeriod reports whether t is in [start, end).
func inPeriod(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
