package query

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache traffic per resource. A nil *Metrics records nothing.
type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	failures      *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	newVec := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showcase",
			Subsystem: "query",
			Name:      name,
			Help:      help,
		}, []string{"resource"})
	}

	m := &Metrics{
		hits:          newVec("cache_hits_total", "Reads served from the query cache."),
		misses:        newVec("cache_misses_total", "Reads that found no fresh cache entry."),
		fetches:       newVec("remote_fetches_total", "Remote calls issued after coalescing."),
		failures:      newVec("remote_failures_total", "Remote calls that returned an error."),
		invalidations: newVec("invalidations_total", "Cache invalidations."),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.fetches, m.failures, m.invalidations)
	}
	return m
}

func (m *Metrics) hit(r Resource) {
	if m != nil {
		m.hits.WithLabelValues(string(r)).Inc()
	}
}

func (m *Metrics) miss(r Resource) {
	if m != nil {
		m.misses.WithLabelValues(string(r)).Inc()
	}
}

func (m *Metrics) fetch(r Resource) {
	if m != nil {
		m.fetches.WithLabelValues(string(r)).Inc()
	}
}

func (m *Metrics) failure(r Resource) {
	if m != nil {
		m.failures.WithLabelValues(string(r)).Inc()
	}
}

func (m *Metrics) invalidation(r Resource) {
	if m != nil {
		m.invalidations.WithLabelValues(string(r)).Inc()
	}
}
