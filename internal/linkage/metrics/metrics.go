package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for organization linkage.
type Metrics struct {
	// Resolution outcomes by strategy ("unmatched" on a miss)
	Resolutions *prometheus.CounterVec

	// Panics recovered while resolving a single reference
	ResolveErrors prometheus.Counter

	// Rows written by the linkage writer
	LinksCreated prometheus.Counter

	// Batch subject outcomes by result: added, updated, skipped, error
	BatchSubjects *prometheus.CounterVec

	// Registry index sizes by index: names, acronyms, external_ids
	CacheEntries *prometheus.GaugeVec

	RefreshLatency prometheus.Histogram
	LinkLatency    prometheus.Histogram
}

// New registers the linkage metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orglink_resolutions_total",
			Help: "Reference resolutions by matching strategy",
		}, []string{"strategy"}),

		ResolveErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "orglink_resolve_errors_total",
			Help: "Reference resolutions that failed unexpectedly and were skipped",
		}),

		LinksCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "orglink_links_created_total",
			Help: "Linkage rows written",
		}),

		BatchSubjects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orglink_batch_subjects_total",
			Help: "Batch linking outcomes per subject",
		}, []string{"result"}),

		CacheEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orglink_registry_cache_entries",
			Help: "Entries in each registry index after the last rebuild",
		}, []string{"index"}),

		RefreshLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "orglink_registry_refresh_duration_seconds",
			Help:    "Duration of registry load and index rebuild",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		LinkLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "orglink_link_subject_duration_seconds",
			Help:    "Duration of linking one subject including store writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementResolution records a resolution outcome.
func (m *Metrics) IncrementResolution(strategy string) {
	if m != nil {
		m.Resolutions.WithLabelValues(strategy).Inc()
	}
}

// IncrementResolveError records a recovered resolution fault.
func (m *Metrics) IncrementResolveError() {
	if m != nil {
		m.ResolveErrors.Inc()
	}
}

// AddLinksCreated records written rows.
func (m *Metrics) AddLinksCreated(n int) {
	if m != nil && n > 0 {
		m.LinksCreated.Add(float64(n))
	}
}

// IncrementBatchSubject records one batch subject outcome.
func (m *Metrics) IncrementBatchSubject(result string) {
	if m != nil {
		m.BatchSubjects.WithLabelValues(result).Inc()
	}
}

// SetCacheSizes publishes index sizes.
func (m *Metrics) SetCacheSizes(names, acronyms, externalIDs int) {
	if m != nil {
		m.CacheEntries.WithLabelValues("names").Set(float64(names))
		m.CacheEntries.WithLabelValues("acronyms").Set(float64(acronyms))
		m.CacheEntries.WithLabelValues("external_ids").Set(float64(externalIDs))
	}
}

// ObserveRefreshLatency records a registry refresh.
func (m *Metrics) ObserveRefreshLatency(d time.Duration) {
	if m != nil {
		m.RefreshLatency.Observe(d.Seconds())
	}
}

// ObserveLinkLatency records one LinkSubject call.
func (m *Metrics) ObserveLinkLatency(d time.Duration) {
	if m != nil {
		m.LinkLatency.Observe(d.Seconds())
	}
}
