// Package analytics folds committed placement splits into team
// performance summaries.
package analytics

import (
	"sort"
	"time"

	"github.com/hirewell/revshare/pkg/money"
)

// TopRolesLimit is the number of roles reported in TopRoles.
const TopRolesLimit = 10

// Split is a committed share of a placement fee.
type Split struct {
	PlacementID string
	RecruiterID string
	Amount      money.Money
}

// Placement is the placement and role metadata a split is joined with.
// RoleOpenedAt is nil when the role's opening time is unknown.
type Placement struct {
	PlacementID  string
	RoleID       string
	RoleTitle    string
	CreatedAt    time.Time
	RoleOpenedAt *time.Time
}

// Input is everything Aggregate reads. Submissions is nil when the
// submissions count is unavailable.
type Input struct {
	Splits      []Split
	Placements  []Placement
	Submissions *int64
}

// MemberPerformance summarizes one recruiter over a period.
type MemberPerformance struct {
	RecruiterID string      `json:"recruiter_id"`
	Placements  int         `json:"placements"`
	Revenue     money.Money `json:"revenue"`
	// AvgTimeToPlacement is nil when no placement of the recruiter has a
	// known role opening time.
	AvgTimeToPlacement *Duration `json:"avg_time_to_placement"`
}

// RolePerformance summarizes one role over a period.
type RolePerformance struct {
	RoleID     string      `json:"role_id"`
	RoleTitle  string      `json:"role_title"`
	Placements int         `json:"placements"`
	Revenue    money.Money `json:"revenue"`
}

// TeamAnalytics is the performance of a team over [PeriodStart, PeriodEnd).
type TeamAnalytics struct {
	TeamID            int64               `json:"team_id"`
	PeriodStart       time.Time           `json:"period_start"`
	PeriodEnd         time.Time           `json:"period_end"`
	TotalPlacements   int                 `json:"total_placements"`
	TotalRevenue      money.Money         `json:"total_revenue"`
	MemberPerformance []MemberPerformance `json:"member_performance"`
	TopRoles          []RolePerformance   `json:"top_roles"`
	Submissions       *int64              `json:"submissions"`
	// ConversionRate is placements per submission, nil when the
	// submissions count is unavailable or zero.
	ConversionRate *float64 `json:"conversion_rate"`
}

type memberAcc struct {
	placements map[string]struct{}
	revenue    money.Money
	waited     time.Duration
	timed      int
}

type roleAcc struct {
	title      string
	placements map[string]struct{}
	revenue    money.Money
}

// Aggregate computes the analytics of team over [start, end). Only splits
// whose placement is present in in.Placements and created within the
// window are counted. Aggregate does not modify in.
func Aggregate(team int64, start, end time.Time, in Input) TeamAnalytics {
	out := TeamAnalytics{
		TeamID:            team,
		PeriodStart:       start,
		PeriodEnd:         end,
		MemberPerformance: []MemberPerformance{},
		TopRoles:          []RolePerformance{},
	}

	window := make(map[string]Placement, len(in.Placements))
	for _, p := range in.Placements {
		if p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
			continue
		}
		window[p.PlacementID] = p
	}

	placements := make(map[string]struct{})
	members := make(map[string]*memberAcc)
	roles := make(map[string]*roleAcc)
	for _, s := range in.Splits {
		p, ok := window[s.PlacementID]
		if !ok {
			continue
		}
		placements[s.PlacementID] = struct{}{}
		out.TotalRevenue += s.Amount

		m := members[s.RecruiterID]
		if m == nil {
			m = &memberAcc{placements: make(map[string]struct{})}
			members[s.RecruiterID] = m
		}
		m.revenue += s.Amount
		if _, seen := m.placements[s.PlacementID]; !seen {
			m.placements[s.PlacementID] = struct{}{}
			if p.RoleOpenedAt != nil {
				m.waited += p.CreatedAt.Sub(*p.RoleOpenedAt)
				m.timed++
			}
		}

		r := roles[p.RoleID]
		if r == nil {
			r = &roleAcc{title: p.RoleTitle, placements: make(map[string]struct{})}
			roles[p.RoleID] = r
		}
		r.revenue += s.Amount
		r.placements[s.PlacementID] = struct{}{}
	}
	out.TotalPlacements = len(placements)

	for id, m := range members {
		mp := MemberPerformance{
			RecruiterID: id,
			Placements:  len(m.placements),
			Revenue:     m.revenue,
		}
		if m.timed > 0 {
			avg := Duration(m.waited / time.Duration(m.timed))
			mp.AvgTimeToPlacement = &avg
		}
		out.MemberPerformance = append(out.MemberPerformance, mp)
	}
	sort.Slice(out.MemberPerformance, func(i, j int) bool {
		a, b := out.MemberPerformance[i], out.MemberPerformance[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.RecruiterID < b.RecruiterID
	})

	for id, r := range roles {
		out.TopRoles = append(out.TopRoles, RolePerformance{
			RoleID:     id,
			RoleTitle:  r.title,
			Placements: len(r.placements),
			Revenue:    r.revenue,
		})
	}
	sort.Slice(out.TopRoles, func(i, j int) bool {
		a, b := out.TopRoles[i], out.TopRoles[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		if a.Placements != b.Placements {
			return a.Placements > b.Placements
		}
		return a.RoleID < b.RoleID
	})
	if len(out.TopRoles) > TopRolesLimit {
		out.TopRoles = out.TopRoles[:TopRolesLimit]
	}

	if in.Submissions != nil {
		n := *in.Submissions
		out.Submissions = &n
		if n > 0 {
			rate := float64(out.TotalPlacements) / float64(n)
			out.ConversionRate = &rate
		}
	}

	return out
}
