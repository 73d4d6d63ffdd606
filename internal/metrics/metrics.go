package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for forwarded requests.
const (
	OutcomeRelayed      = "relayed"
	OutcomeNoKey        = "no_key"
	OutcomeBadRequest   = "bad_request"
	OutcomeTransportErr = "transport_error"
)

// Metrics holds the proxy and catalog instruments.
type Metrics struct {
	ForwardedRequests *prometheus.CounterVec
	UpstreamDuration  prometheus.Histogram
	CatalogFailures   *prometheus.CounterVec
}

// New creates and registers metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ForwardedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marquee",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Forwarding handler requests by outcome and response status.",
		}, []string{"outcome", "status"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marquee",
			Subsystem: "proxy",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of upstream metadata API calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CatalogFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marquee",
			Subsystem: "catalog",
			Name:      "fetch_failures_total",
			Help:      "Catalog fetches that failed and rendered as empty.",
		}, []string{"view"}),
	}

	reg.MustRegister(
		m.ForwardedRequests,
		m.UpstreamDuration,
		m.CatalogFailures,
	)

	return m
}

// ObserveForward records one forwarding handler response. Safe on a nil receiver.
func (m *Metrics) ObserveForward(outcome string, status int) {
	if m == nil {
		return
	}
	m.ForwardedRequests.WithLabelValues(outcome, strconv.Itoa(status)).Inc()
}

// ObserveUpstream records the duration of one upstream call in seconds.
func (m *Metrics) ObserveUpstream(seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamDuration.Observe(seconds)
}

// CatalogFailed counts a failed fetch for a catalog view.
func (m *Metrics) CatalogFailed(view string) {
	if m == nil {
		return
	}
	m.CatalogFailures.WithLabelValues(view).Inc()
}
