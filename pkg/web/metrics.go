package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "revshare",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "The total number of HTTP API requests",
}, []string{"method", "code"})

var authFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "revshare",
	Subsystem: "http",
	Name:      "auth_failures_total",
	Help:      "The total number of rejected bearer tokens",
})
