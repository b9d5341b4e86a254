package encoder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts encoder activity. A nil *Metrics records nothing.
type Metrics struct {
	visits  *prometheus.CounterVec // By element kind
	added   prometheus.Counter
	removed prometheus.Counter
	skipped *prometheus.CounterVec // By variant class
}

// NewMetrics creates the encoder metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	m := &Metrics{
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectrdf",
			Subsystem: "encoder",
			Name:      "visits_total",
			Help:      "Total number of element visits that wrote statements",
		}, []string{"kind"}),

		added: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aspectrdf",
			Subsystem: "encoder",
			Name:      "statements_added_total",
			Help:      "Total number of statements added to file stores",
		}),

		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aspectrdf",
			Subsystem: "encoder",
			Name:      "statements_removed_total",
			Help:      "Total number of statements removed from file stores",
		}),

		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectrdf",
			Subsystem: "encoder",
			Name:      "skipped_variants_total",
			Help:      "Total number of characteristic or constraint variants without an encoder",
		}, []string{"class"}),
	}

	for _, c := range []prometheus.Collector{m.visits, m.added, m.removed, m.skipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordVisit(kind string) {
	if m == nil {
		return
	}
	m.visits.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordAdded(n int) {
	if m == nil || n == 0 {
		return
	}
	m.added.Add(float64(n))
}

func (m *Metrics) recordRemoved(n int) {
	if m == nil || n == 0 {
		return
	}
	m.removed.Add(float64(n))
}

func (m *Metrics) recordSkipped(class string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(class).Inc()
}
