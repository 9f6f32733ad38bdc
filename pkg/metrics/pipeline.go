package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// PipelineMetrics records cleaning and simulation activity.
type PipelineMetrics struct {
	issues    *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cache     *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latencies *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	issues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cleaning_issues_total",
		Help: "Data-quality issues logged by the cleaner.",
	}, []string{"table", "issue_type"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cleaning_records_dropped_total",
		Help: "Records dropped by the cleaner.",
	}, []string{"table"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Duration of promotion simulations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_cache_total",
		Help: "Simulation cache lookups by result.",
	}, []string{"result"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
	latencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(issues, dropped, duration, cache, requests, latencies)
	return &PipelineMetrics{
		issues:    issues,
		dropped:   dropped,
		duration:  duration,
		cache:     cache,
		requests:  requests,
		latencies: latencies,
	}
}

// IncIssue counts one logged issue.
func (m *PipelineMetrics) IncIssue(table string, issueType enums.IssueType) {
	if m == nil || m.issues == nil {
		return
	}
	m.issues.WithLabelValues(normalizeLabel(table), normalizeLabel(issueType.String())).Inc()
}

// AddDropped counts dropped records for table.
func (m *PipelineMetrics) AddDropped(table string, n int) {
	if m == nil || m.dropped == nil || n <= 0 {
		return
	}
	m.dropped.WithLabelValues(normalizeLabel(table)).Add(float64(n))
}

// ObserveSimulation records how long a simulation of the given kind took.
func (m *PipelineMetrics) ObserveSimulation(kind string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}

// IncCache counts a cache lookup outcome.
func (m *PipelineMetrics) IncCache(result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *PipelineMetrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latencies.WithLabelValues(method, route).Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
