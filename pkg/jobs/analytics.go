package jobs

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/sync"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	Register("analytics-refresh", analyticsRefresh{})
}

var (
	teamRevenueGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "revshare",
		Subsystem: "team",
		Name:      "revenue_minor_units",
		Help:      "Committed revenue of a team over the trailing analytics window",
	}, []string{"team"})

	teamPlacementsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "revshare",
		Subsystem: "team",
		Name:      "placements",
		Help:      "Placements of a team over the trailing analytics window",
	}, []string{"team"})

	teamConversionGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "revshare",
		Subsystem: "team",
		Name:      "conversion_rate",
		Help:      "Placements per submission of a team over the trailing analytics window",
	}, []string{"team"})
)

// analyticsRefresh recomputes the analytics of every active team over the
// trailing window and publishes them as gauges.
type analyticsRefresh struct{}

var _ Runner = analyticsRefresh{}

// Spec implements Runner.
func (analyticsRefresh) Spec(ctx context.Context) string {
	cfg := config.FromContext(ctx)
	if cfg.Jobs.AnalyticsWindow <= 0 {
		return ""
	}
	return cfg.Jobs.AnalyticsRefresh
}

// Func implements Runner.
func (analyticsRefresh) Func(ctx context.Context) func() {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.analytics")
	be := backend.FromContext(ctx)
	return func() {
		teams, err := be.ListTeams(ctx)
		if err != nil {
			logger.Error("error listing teams", "err", err)
			return
		}

		end := time.Now().UTC()
		start := end.Add(-cfg.Jobs.AnalyticsWindow)
		wq := sync.NewWorkPool(ctx, runtime.GOMAXPROCS(0),
			sync.WithWorkPoolLogger(logger.Errorf),
		)

		logger.Debug("refreshing team analytics", "teams", len(teams), "start", start, "end", end)
		for _, t := range teams {
			label := strconv.FormatInt(t.ID, 10)
			if t.Status != proto.TeamActive {
				teamRevenueGauge.DeleteLabelValues(label)
				teamPlacementsGauge.DeleteLabelValues(label)
				teamConversionGauge.DeleteLabelValues(label)
				continue
			}

			id := t.ID
			wq.Add(label, func() {
				a, err := be.ComputeAnalytics(ctx, id, start, end)
				if err != nil {
					logger.Error("error computing analytics", "team", id, "err", err)
					return
				}

				teamRevenueGauge.WithLabelValues(label).Set(float64(a.TotalRevenue.Units()))
				teamPlacementsGauge.WithLabelValues(label).Set(float64(a.TotalPlacements))
				if a.ConversionRate != nil {
					teamConversionGauge.WithLabelValues(label).Set(*a.ConversionRate)
				} else {
					teamConversionGauge.DeleteLabelValues(label)
				}
			})
		}

		wq.Run()
	}
}
