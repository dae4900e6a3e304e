package jobs

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/migrate"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/hirewell/revshare/pkg/store/database"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistered(t *testing.T) {
	is := is.New(t)
	is.Equal(Names(), []string{"analytics-refresh"})

	ctx := config.WithContext(context.TODO(), config.DefaultConfig())
	is.Equal(List()["analytics-refresh"].Runner.Spec(ctx), "@every 15m")

	cfg := config.DefaultConfig()
	cfg.Jobs.AnalyticsWindow = 0
	is.Equal(analyticsRefresh{}.Spec(config.WithContext(context.TODO(), cfg)), "")
}

func TestAnalyticsRefresh(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.DB.DataSource = filepath.Join(cfg.DataPath, "revshare.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	ctx = config.WithContext(ctx, cfg)

	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	is.NoErr(err)
	t.Cleanup(func() { _ = dbx.Close() })
	is.NoErr(migrate.Migrate(ctx, dbx))

	be := backend.New(ctx, cfg, dbx, database.New(ctx))
	ctx = backend.WithContext(ctx, be)

	team, err := be.CreateTeam(ctx, "north", "alice")
	is.NoErr(err)
	c, err := be.CreateConfiguration(ctx, team.ID, "solo", split.FlatSplit, split.Config{
		Entries: []split.FlatEntry{{Recruiter: "alice", Percentage: money.Hundred}},
	})
	is.NoErr(err)
	_, err = be.RecordPlacement(ctx, team.ID, proto.PlacementMeta{PlacementID: "p1", RoleID: "eng"})
	is.NoErr(err)
	_, err = be.CommitSplits(ctx, team.ID, "p1", 125000, &c.ID)
	is.NoErr(err)
	is.NoErr(be.RecordSubmission(ctx, team.ID, "cand-1", time.Now()))
	is.NoErr(be.RecordSubmission(ctx, team.ID, "cand-2", time.Now()))

	analyticsRefresh{}.Func(ctx)()

	label := strconv.FormatInt(team.ID, 10)

	is.Equal(testutil.ToFloat64(teamRevenueGauge.WithLabelValues(label)), float64(125000))
	is.Equal(testutil.ToFloat64(teamPlacementsGauge.WithLabelValues(label)), float64(1))
	is.Equal(testutil.ToFloat64(teamConversionGauge.WithLabelValues(label)), 0.5)
}
