// Package metrics provides Prometheus metrics for the shortener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace is the namespace for all shorty metrics.
const MetricsNamespace = "shorty"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ResolutionsTotal       *prometheus.CounterVec
	LinksCreatedTotal      *prometheus.CounterVec
	HitRecordFailuresTotal prometheus.Counter
}

// New creates and registers the service metrics. A nil registerer falls back
// to the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "resolutions_total",
				Help:      "Total number of resolution attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		LinksCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "links_created_total",
				Help:      "Total number of links created",
			},
			[]string{"keyword"},
		),
		HitRecordFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "hit_record_failures_total",
				Help:      "Total number of hit-recording failures swallowed on the redirect path",
			},
		),
	}
}

// ObserveResolution counts a resolution attempt.
func (m *Metrics) ObserveResolution(kind, outcome string) {
	m.ResolutionsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveHitRecordFailure counts a swallowed hit-recording failure.
func (m *Metrics) ObserveHitRecordFailure() {
	m.HitRecordFailuresTotal.Inc()
}

// ObserveLinkCreated counts a created link.
func (m *Metrics) ObserveLinkCreated(withKeyword bool) {
	label := "none"
	if withKeyword {
		label = "keyword"
	}
	m.LinksCreatedTotal.WithLabelValues(label).Inc()
}
