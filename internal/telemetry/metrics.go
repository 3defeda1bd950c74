package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LinesScanned counts raw lines fed to the record parser
	LinesScanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blescope",
			Name:      "lines_scanned_total",
			Help:      "Total number of log lines fed to the record parser",
		},
		[]string{"session"},
	)

	// RecordsEmitted counts complete records emitted by the parser
	RecordsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blescope",
			Name:      "records_emitted_total",
			Help:      "Total number of complete packet records emitted",
		},
		[]string{"session"},
	)

	// RecordsDropped counts incomplete records discarded at block
	// boundaries or at end of input
	RecordsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blescope",
			Name:      "records_dropped_total",
			Help:      "Total number of incomplete records discarded",
		},
		[]string{"session", "reason"},
	)

	// SerialReadErrors counts transient read failures on the live transport
	SerialReadErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blescope",
			Name:      "serial_read_errors_total",
			Help:      "Total number of transient serial read failures",
		},
	)

	// LivePointsAppended counts counter/RSSI pairs appended to the live buffer
	LivePointsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blescope",
			Name:      "live_points_appended_total",
			Help:      "Total number of counter/RSSI pairs appended to the live buffer",
		},
	)

	// LivePointsEvicted counts pairs evicted from the live buffer once the
	// point cap is exceeded
	LivePointsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blescope",
			Name:      "live_points_evicted_total",
			Help:      "Total number of pairs evicted from the live buffer",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(LinesScanned)
		prometheus.DefaultRegisterer.Register(RecordsEmitted)
		prometheus.DefaultRegisterer.Register(RecordsDropped)
		prometheus.DefaultRegisterer.Register(SerialReadErrors)
		prometheus.DefaultRegisterer.Register(LivePointsAppended)
		prometheus.DefaultRegisterer.Register(LivePointsEvicted)
	})
}
