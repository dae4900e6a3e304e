package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/migrate"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/store"
	"github.com/matryer/is"
)

func setup(tb testing.TB) (context.Context, *db.DB, store.Store) {
	tb.Helper()
	is := is.New(tb)
	ctx := context.TODO()
	dsn := filepath.Join(tb.TempDir(), "revshare.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	dbx, err := db.Open(ctx, "sqlite", dsn)
	is.NoErr(err)
	tb.Cleanup(func() { _ = dbx.Close() })
	is.NoErr(migrate.Migrate(ctx, dbx))
	return ctx, dbx, New(ctx)
}

func TestTeams(t *testing.T) {
	is := is.New(t)
	ctx, dbx, st := setup(t)

	team, err := st.CreateTeam(ctx, dbx, "north", "alice")
	is.NoErr(err)
	is.Equal(team.Name, "north")
	is.Equal(team.Status, "active")
	is.True(!team.DefaultConfigurationID.Valid)

	_, err = st.CreateTeam(ctx, dbx, "north", "bob")
	is.True(errors.Is(err, db.ErrDuplicateKey))

	got, err := st.GetTeamByName(ctx, dbx, "north")
	is.NoErr(err)
	is.Equal(got.ID, team.ID)

	is.NoErr(st.SetTeamStatus(ctx, dbx, team.ID, "suspended"))
	got, err = st.GetTeamByID(ctx, dbx, team.ID)
	is.NoErr(err)
	is.Equal(got.Status, "suspended")

	_, err = st.GetTeamByID(ctx, dbx, 999)
	is.True(errors.Is(err, db.ErrRecordNotFound))
	is.True(errors.Is(st.SetTeamStatus(ctx, dbx, 999, "active"), db.ErrRecordNotFound))

	teams, err := st.ListTeams(ctx, dbx)
	is.NoErr(err)
	is.Equal(len(teams), 1)
}

func TestTeamMembers(t *testing.T) {
	is := is.New(t)
	ctx, dbx, st := setup(t)

	team, err := st.CreateTeam(ctx, dbx, "north", "alice")
	is.NoErr(err)

	_, err = st.AddTeamMember(ctx, dbx, team.ID, "alice", "owner")
	is.NoErr(err)
	_, err = st.AddTeamMember(ctx, dbx, team.ID, "bob", "member")
	is.NoErr(err)

	is.NoErr(st.RemoveTeamMember(ctx, dbx, team.ID, "bob"))
	active, err := st.ListTeamMembers(ctx, dbx, team.ID, "active")
	is.NoErr(err)
	is.Equal(len(active), 1)
	is.Equal(active[0].RecruiterID, "alice")

	all, err := st.ListTeamMembers(ctx, dbx, team.ID, "")
	is.NoErr(err)
	is.Equal(len(all), 2)

	// Re-adding reactivates with the new role.
	m, err := st.AddTeamMember(ctx, dbx, team.ID, "bob", "admin")
	is.NoErr(err)
	is.Equal(m.Status, "active")
	is.Equal(m.Role, "admin")

	is.True(errors.Is(st.RemoveTeamMember(ctx, dbx, team.ID, "carol"), db.ErrRecordNotFound))
}

func TestConfigurations(t *testing.T) {
	is := is.New(t)
	ctx, dbx, st := setup(t)

	team, err := st.CreateTeam(ctx, dbx, "north", "alice")
	is.NoErr(err)

	_, err = st.GetDefaultConfiguration(ctx, dbx, team.ID)
	is.True(errors.Is(err, db.ErrRecordNotFound))

	c1, err := st.CreateConfiguration(ctx, dbx, models.SplitConfiguration{
		TeamID: team.ID, Name: "even", Model: "flat_split", Config: `{}`,
	})
	is.NoErr(err)
	c2, err := st.CreateConfiguration(ctx, dbx, models.SplitConfiguration{
		TeamID: team.ID, Name: "even v2", Model: "flat_split", Config: `{}`,
		ParentID: sql.NullInt64{Int64: c1.ID, Valid: true},
	})
	is.NoErr(err)
	is.Equal(c2.ParentID.Int64, c1.ID)

	is.NoErr(st.SetTeamDefaultConfiguration(ctx, dbx, team.ID, c1.ID))
	is.NoErr(st.SetTeamDefaultConfiguration(ctx, dbx, team.ID, c2.ID))
	def, err := st.GetDefaultConfiguration(ctx, dbx, team.ID)
	is.NoErr(err)
	is.Equal(def.ID, c2.ID)

	cfgs, err := st.ListConfigurations(ctx, dbx, team.ID)
	is.NoErr(err)
	is.Equal(len(cfgs), 2)
}

func TestPlacementSplits(t *testing.T) {
	is := is.New(t)
	ctx, dbx, st := setup(t)

	team, err := st.CreateTeam(ctx, dbx, "north", "alice")
	is.NoErr(err)
	cfg, err := st.CreateConfiguration(ctx, dbx, models.SplitConfiguration{
		TeamID: team.ID, Name: "even", Model: "flat_split", Config: `{}`,
	})
	is.NoErr(err)

	opened := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := st.CreatePlacement(ctx, dbx, models.Placement{
		PlacementID:  "p1",
		TeamID:       team.ID,
		RoleID:       "r1",
		RoleTitle:    "Engineer",
		RoleOpenedAt: sql.NullTime{Time: opened, Valid: true},
		CreatedAt:    opened.Add(72 * time.Hour),
	})
	is.NoErr(err)
	is.True(p.RoleOpenedAt.Valid)
	is.True(p.RoleOpenedAt.Time.Equal(opened))

	splits := []models.PlacementSplit{
		{BatchID: "b", PlacementID: "p1", TeamID: team.ID, ConfigurationID: cfg.ID, RecruiterID: "alice", SplitPercentage: 6000, SplitAmount: 600, TotalFee: 1000},
		{BatchID: "b", PlacementID: "p1", TeamID: team.ID, ConfigurationID: cfg.ID, RecruiterID: "alice", SplitPercentage: 4000, SplitAmount: 400, TotalFee: 1000},
	}
	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		return st.CreatePlacementSplits(ctx, tx, splits)
	})
	is.True(errors.Is(err, db.ErrDuplicateKey))

	got, err := st.GetPlacementSplits(ctx, dbx, "p1")
	is.NoErr(err)
	is.Equal(len(got), 0) // nothing written on failure

	splits[1].RecruiterID = "bob"
	is.NoErr(dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		return st.CreatePlacementSplits(ctx, tx, splits)
	}))
	got, err = st.ListTeamPlacementSplits(ctx, dbx, team.ID)
	is.NoErr(err)
	is.Equal(len(got), 2)
	is.Equal(got[0].SplitAmount+got[1].SplitAmount, int64(1000))
}

func TestClaimPlacement(t *testing.T) {
	is := is.New(t)
	ctx, dbx, st := setup(t)

	team, err := st.CreateTeam(ctx, dbx, "north", "alice")
	is.NoErr(err)
	p, err := st.CreatePlacement(ctx, dbx, models.Placement{PlacementID: "p1", TeamID: team.ID, RoleID: "r1"})
	is.NoErr(err)
	is.True(!p.CommittedBatchID.Valid)

	ok, err := st.ClaimPlacement(ctx, dbx, "p1", "b1")
	is.NoErr(err)
	is.True(ok)

	ok, err = st.ClaimPlacement(ctx, dbx, "p1", "b2")
	is.NoErr(err)
	is.True(!ok) // already held by b1

	p, err = st.GetPlacement(ctx, dbx, "p1")
	is.NoErr(err)
	is.Equal(p.CommittedBatchID.String, "b1")

	ok, err = st.ClaimPlacement(ctx, dbx, "p2", "b1")
	is.NoErr(err)
	is.True(!ok) // unknown placement
}

func TestStageCreditsAndSubmissions(t *testing.T) {
	is := is.New(t)
	ctx, dbx, st := setup(t)

	team, err := st.CreateTeam(ctx, dbx, "north", "alice")
	is.NoErr(err)
	_, err = st.CreatePlacement(ctx, dbx, models.Placement{PlacementID: "p1", TeamID: team.ID, RoleID: "r1"})
	is.NoErr(err)

	is.NoErr(st.SetStageCredit(ctx, dbx, "p1", "alice", "sourced", 1))
	is.NoErr(st.SetStageCredit(ctx, dbx, "p1", "alice", "sourced", 3))
	credits, err := st.ListStageCredits(ctx, dbx, "p1")
	is.NoErr(err)
	is.Equal(len(credits), 1)
	is.Equal(credits[0].Credits, int64(3))

	now := time.Now()
	is.NoErr(st.AddSubmission(ctx, dbx, team.ID, "cand-1", now))
	is.NoErr(st.AddSubmission(ctx, dbx, team.ID, "cand-1", now))
	is.NoErr(st.AddSubmission(ctx, dbx, team.ID, "cand-2", now))
	subs, err := st.ListSubmissions(ctx, dbx, team.ID)
	is.NoErr(err)
	is.Equal(len(subs), 2)
}
