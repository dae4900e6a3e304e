package analytics

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hirewell/revshare/pkg/money"
	"github.com/matryer/is"
)

var (
	start = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
)

func fixture() Input {
	opened := start.Add(-48 * time.Hour)
	return Input{
		Placements: []Placement{
			{PlacementID: "p1", RoleID: "eng", RoleTitle: "Engineer", CreatedAt: start, RoleOpenedAt: &opened},
			{PlacementID: "p2", RoleID: "pm", RoleTitle: "Product", CreatedAt: start.Add(24 * time.Hour)},
			{PlacementID: "p3", RoleID: "eng", RoleTitle: "Engineer", CreatedAt: end},                    // outside
			{PlacementID: "p4", RoleID: "ops", RoleTitle: "Ops", CreatedAt: start.Add(-time.Nanosecond)}, // outside
		},
		Splits: []Split{
			{PlacementID: "p1", RecruiterID: "alice", Amount: 600},
			{PlacementID: "p1", RecruiterID: "bob", Amount: 400},
			{PlacementID: "p2", RecruiterID: "bob", Amount: 500},
			{PlacementID: "p3", RecruiterID: "alice", Amount: 9999},
			{PlacementID: "p4", RecruiterID: "alice", Amount: 9999},
			{PlacementID: "unknown", RecruiterID: "alice", Amount: 9999},
		},
	}
}

func TestAggregate(t *testing.T) {
	is := is.New(t)
	a := Aggregate(7, start, end, fixture())

	is.Equal(a.TeamID, int64(7))
	is.Equal(a.TotalPlacements, 2)
	is.Equal(a.TotalRevenue, money.Money(1500))

	is.Equal(len(a.MemberPerformance), 2)
	bob, alice := a.MemberPerformance[0], a.MemberPerformance[1]
	is.Equal(bob.RecruiterID, "bob")
	is.Equal(bob.Placements, 2)
	is.Equal(bob.Revenue, money.Money(900))
	is.Equal(time.Duration(*bob.AvgTimeToPlacement), 48*time.Hour) // only p1 is timed
	is.Equal(alice.RecruiterID, "alice")
	is.Equal(alice.Placements, 1)
	is.Equal(alice.Revenue, money.Money(600))

	is.Equal(a.TopRoles, []RolePerformance{
		{RoleID: "eng", RoleTitle: "Engineer", Placements: 1, Revenue: 1000},
		{RoleID: "pm", RoleTitle: "Product", Placements: 1, Revenue: 500},
	})

	is.True(a.Submissions == nil)
	is.True(a.ConversionRate == nil)
}

func TestAggregateUnknownTimeToPlacement(t *testing.T) {
	is := is.New(t)
	in := Input{
		Placements: []Placement{{PlacementID: "p", RoleID: "r", CreatedAt: start}},
		Splits:     []Split{{PlacementID: "p", RecruiterID: "alice", Amount: 1}},
	}
	a := Aggregate(1, start, end, in)
	is.Equal(len(a.MemberPerformance), 1)
	is.True(a.MemberPerformance[0].AvgTimeToPlacement == nil)

	b, err := json.Marshal(a.MemberPerformance[0])
	is.NoErr(err)
	is.Equal(string(b), `{"recruiter_id":"alice","placements":1,"revenue":1,"avg_time_to_placement":null}`)
}

func TestAggregateConversionRate(t *testing.T) {
	is := is.New(t)

	in := fixture()
	four := int64(4)
	in.Submissions = &four
	a := Aggregate(1, start, end, in)
	is.Equal(*a.ConversionRate, 0.5)

	zero := int64(0)
	in.Submissions = &zero
	a = Aggregate(1, start, end, in)
	is.Equal(*a.Submissions, int64(0))
	is.True(a.ConversionRate == nil)
}

func TestAggregateTopRolesTieBreaks(t *testing.T) {
	is := is.New(t)

	var in Input
	for i := 0; i < 12; i++ {
		role := fmt.Sprintf("r%02d", i)
		in.Placements = append(in.Placements, Placement{PlacementID: role + "-a", RoleID: role, CreatedAt: start})
		in.Splits = append(in.Splits, Split{PlacementID: role + "-a", RecruiterID: "x", Amount: 100})
	}
	// r11 matches the others on revenue with two placements.
	in.Splits[11].Amount = 50
	in.Placements = append(in.Placements, Placement{PlacementID: "r11-b", RoleID: "r11", CreatedAt: start})
	in.Splits = append(in.Splits, Split{PlacementID: "r11-b", RecruiterID: "x", Amount: 50})

	a := Aggregate(1, start, end, in)
	is.Equal(len(a.TopRoles), TopRolesLimit)
	is.Equal(a.TopRoles[0].RoleID, "r11")
	is.Equal(a.TopRoles[1].RoleID, "r00")
	is.Equal(a.TopRoles[9].RoleID, "r08")
}

func TestAggregateIsPure(t *testing.T) {
	is := is.New(t)
	in := fixture()
	snapshot := fixture()

	a := Aggregate(1, start, end, in)
	b := Aggregate(1, start, end, in)
	is.True(reflect.DeepEqual(a, b))
	is.True(reflect.DeepEqual(in, snapshot))
}

func TestAggregateEmpty(t *testing.T) {
	is := is.New(t)
	a := Aggregate(1, start, end, Input{})
	is.Equal(a.TotalPlacements, 0)
	is.Equal(a.TotalRevenue, money.Money(0))
	is.Equal(len(a.MemberPerformance), 0)
	is.Equal(len(a.TopRoles), 0)
}

func TestDurationJSON(t *testing.T) {
	is := is.New(t)

	b, err := json.Marshal(Duration(36 * time.Hour))
	is.NoErr(err)
	is.Equal(string(b), `"36h0m0s"`)

	var d Duration
	is.NoErr(json.Unmarshal(b, &d))
	is.Equal(time.Duration(d), 36*time.Hour)

	is.NoErr(json.Unmarshal([]byte(`"2d"`), &d))
	is.Equal(time.Duration(d), 48*time.Hour)

	is.True(json.Unmarshal([]byte(`"soon"`), &d) != nil)
}
