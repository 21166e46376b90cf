package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notegrid_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notegrid_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notegrid_auth_failures_total",
			Help: "Authentication failures by internal reason",
		},
		[]string{"reason"},
	)

	NoteLimitDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notegrid_note_limit_denials_total",
			Help: "Note creations denied by the free plan quota",
		},
	)

	NotesPerTenant = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notegrid_tenant_notes",
			Help: "Current note count per tenant",
		},
		[]string{"tenant", "plan"},
	)
)
