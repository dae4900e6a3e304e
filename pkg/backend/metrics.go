package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calculationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "split",
		Name:      "calculations_total",
		Help:      "The total number of split calculations by model and result",
	}, []string{"model", "result"})

	commitCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "split",
		Name:      "commits_total",
		Help:      "The total number of split commits by result",
	}, []string{"result"})

	committedFeeCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "split",
		Name:      "committed_fee_minor_units_total",
		Help:      "The total placement fees committed, in minor units",
	})

	roundingViolationCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "split",
		Name:      "rounding_violations_total",
		Help:      "The total number of calculations failing the rounding invariant",
	})
)

// resultLabel classifies a calculation error for metrics.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return errorKind(err)
}
