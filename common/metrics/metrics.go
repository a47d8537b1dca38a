package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "patternatlas"

// Metrics holds the collectors for the entity store and the discussion client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	cacheLookups         *prometheus.CounterVec
	externalCalls        *prometheus.CounterVec
	externalLatency      *prometheus.HistogramVec
	invalidRelationships prometheus.Counter
	patchNoops           prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "cache_lookups_total",
			Help:      "Store lookups by entity kind and result (hit or miss).",
		}, []string{"kind", "result"}),
		externalCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discussions",
			Name:      "calls_total",
			Help:      "Calls to the discussion service by operation and outcome.",
		}, []string{"operation", "outcome"}),
		externalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discussions",
			Name:      "call_duration_seconds",
			Help:      "Latency of calls to the discussion service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		invalidRelationships: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "invalid_relationships_total",
			Help:      "Relationship discussions dropped because their body did not decode.",
		}),
		patchNoops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "patch_noops_total",
			Help:      "Relationship patches skipped because the number was already listed.",
		}),
	}

	reg.MustRegister(
		m.cacheLookups,
		m.externalCalls,
		m.externalLatency,
		m.invalidRelationships,
		m.patchNoops,
	)
	return m
}

// CacheLookup records a store lookup
func (m *Metrics) CacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}

// ExternalCall records the outcome and latency of one discussion service call
func (m *Metrics) ExternalCall(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.externalCalls.WithLabelValues(operation, outcome).Inc()
	m.externalLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// InvalidRelationship records a dropped relationship record
func (m *Metrics) InvalidRelationship() {
	if m == nil {
		return
	}
	m.invalidRelationships.Inc()
}

// PatchNoop records a patch that left the body unchanged
func (m *Metrics) PatchNoop() {
	if m == nil {
		return
	}
	m.patchNoops.Inc()
}
