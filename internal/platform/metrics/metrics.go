package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ProfilesCreated  prometheus.Counter
	ActiveVisitors   prometheus.Gauge
	SessionEvents    *prometheus.CounterVec
	ResolveAttempts  prometheus.Counter
	ResolveFailures  prometheus.Counter
	ResolveLatency   prometheus.Histogram
	StaleResolutions prometheus.Counter

	ProfileTransitions *prometheus.CounterVec

	RedirectsIssued     *prometheus.CounterVec
	RedirectsSuppressed *prometheus.CounterVec
	StaleDecisions      prometheus.Counter
	EdgeDenials         prometheus.Counter
	EndpointLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_profiles_created_total",
			Help: "Total number of default profiles created for first-time sessions",
		}),
		ActiveVisitors: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "studiogate_active_visitors",
			Help: "Current number of visitors with a live session",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studiogate_session_events_total",
			Help: "Total number of identity provider session events, labeled by kind",
		}, []string{"kind"}),
		ResolveAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_profile_resolve_attempts_total",
			Help: "Total number of profile store lookup attempts, including retries",
		}),
		ResolveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_profile_resolve_failures_total",
			Help: "Total number of profile resolutions that exhausted their retry budget",
		}),
		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "studiogate_profile_resolve_latency_seconds",
			Help:    "Latency of profile resolution including backoff delays",
			Buckets: prometheus.DefBuckets,
		}),
		StaleResolutions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_stale_resolutions_discarded_total",
			Help: "Total number of profile resolutions discarded because a newer session superseded them",
		}),
		ProfileTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studiogate_profile_transitions_total",
			Help: "Total number of profile status transitions applied, labeled by action",
		}, []string{"action"}),
		RedirectsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studiogate_redirects_issued_total",
			Help: "Total number of policy redirects issued, labeled by rule",
		}, []string{"rule"}),
		RedirectsSuppressed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studiogate_redirects_suppressed_total",
			Help: "Total number of policy redirects suppressed by navigation intent, labeled by reason",
		}, []string{"reason"}),
		StaleDecisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_stale_decisions_discarded_total",
			Help: "Total number of redirect decisions discarded because the current path changed before apply",
		}),
		EdgeDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_edge_denials_total",
			Help: "Total number of requests the edge guard redirected to sign-in",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studiogate_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementProfilesCreated increments the profiles created counter by 1
func (m *Metrics) IncrementProfilesCreated() {
	m.ProfilesCreated.Inc()
}

func (m *Metrics) IncrementActiveVisitors(count int) {
	m.ActiveVisitors.Add(float64(count))
}

func (m *Metrics) DecrementActiveVisitors(count int) {
	m.ActiveVisitors.Sub(float64(count))
}

func (m *Metrics) IncrementSessionEvents(kind string) {
	m.SessionEvents.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementResolveAttempts() {
	m.ResolveAttempts.Inc()
}

func (m *Metrics) IncrementResolveFailures() {
	m.ResolveFailures.Inc()
}

// ObserveResolveLatency records the total duration of a profile resolution
func (m *Metrics) ObserveResolveLatency(durationSeconds float64) {
	m.ResolveLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementStaleResolutions() {
	m.StaleResolutions.Inc()
}

// IncrementProfileTransitions counts an applied status transition, labeled by
// the audit action that recorded it
func (m *Metrics) IncrementProfileTransitions(action string) {
	m.ProfileTransitions.WithLabelValues(action).Inc()
}

// IncrementRedirectsIssued increments the redirects issued counter with a rule label
func (m *Metrics) IncrementRedirectsIssued(rule string) {
	m.RedirectsIssued.WithLabelValues(rule).Inc()
}

// IncrementRedirectsSuppressed increments the suppressed redirects counter with a reason label
func (m *Metrics) IncrementRedirectsSuppressed(reason string) {
	m.RedirectsSuppressed.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementStaleDecisions() {
	m.StaleDecisions.Inc()
}

func (m *Metrics) IncrementEdgeDenials() {
	m.EdgeDenials.Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
