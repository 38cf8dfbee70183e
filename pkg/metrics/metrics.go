// Package metrics instruments garage operations with Prometheus
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Operation names
const (
	OpBuild   = "build"
	OpRemove  = "remove"
	OpDisplay = "display"
	OpRelease = "release"
)

// Metrics holds the Prometheus collectors for the garage. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	liveRecords     prometheus.Gauge
	liveRecordBytes prometheus.Gauge
	recordsReleased prometheus.Counter
}

// NewMetrics creates the garage collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garage_operations_total",
				Help: "Total number of garage operations",
			},
			[]string{"operation", "status"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "garage_operation_duration_seconds",
				Help:    "Garage operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		liveRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "garage_records_live",
				Help: "Number of vehicle records currently owned by a garage",
			},
		),

		liveRecordBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "garage_record_bytes_live",
				Help: "Total size in bytes of vehicle records currently owned by a garage",
			},
		),

		recordsReleased: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "garage_records_released_total",
				Help: "Total number of vehicle records released",
			},
		),
	}
}

// RecordOperation records a garage operation
func (m *Metrics) RecordOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}

	status := statusSuccess
	if err != nil {
		status = statusError
	}

	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAcquired tracks a record entering garage ownership
func (m *Metrics) RecordAcquired(size int) {
	if m == nil {
		return
	}
	m.liveRecords.Inc()
	m.liveRecordBytes.Add(float64(size))
}

// RecordReleased tracks a record's storage being released
func (m *Metrics) RecordReleased(size int) {
	if m == nil {
		return
	}
	m.liveRecords.Dec()
	m.liveRecordBytes.Sub(float64(size))
	m.recordsReleased.Inc()
}
