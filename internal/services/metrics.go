package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tawasol/web/internal/models"
)

// Operation results recorded by Metrics.
const (
	ResultOK        = "ok"
	ResultFailed    = "failed"
	ResultConflict  = "conflict"
	ResultDuplicate = "duplicate"
	ResultDiscarded = "discarded"
)

// Metrics counts record operations and mounted views. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	operations *prometheus.CounterVec
	views      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_record_operations_total",
				Help: "Record create/update/delete attempts by kind and result",
			},
			[]string{"kind", "op", "result"},
		),
		views: f.NewGauge(prometheus.GaugeOpts{
			Name: "profile_views_mounted",
			Help: "View sessions currently mounted",
		}),
	}
}

func (m *Metrics) Operation(kind models.Kind, op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(string(kind), op, result).Inc()
}

func (m *Metrics) ViewMounted() {
	if m != nil {
		m.views.Inc()
	}
}

func (m *Metrics) ViewUnmounted() {
	if m != nil {
		m.views.Dec()
	}
}
