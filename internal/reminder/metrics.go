package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus metrics for the reminder subsystem. A nil
// *Metrics is valid and records nothing, which keeps tests free of
// registry setup.
type Metrics struct {
	scheduledTotal    *prometheus.CounterVec
	firedTotal        *prometheus.CounterVec
	canceledTotal     prometheus.Counter
	deliveryFailures  prometheus.Counter
	rejectedTotal     *prometheus.CounterVec
	pendingEntries    prometheus.Gauge
	sweepDuration     prometheus.Histogram
}

// InitMetrics registers the reminder metrics on the given registerer
// (DefaultRegisterer when nil).
func InitMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		scheduledTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_scheduled_total",
				Help:      "Total number of scheduled reminders and timers",
			},
			[]string{"kind"},
		),
		firedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_fired_total",
				Help:      "Total number of fired reminders and timers",
			},
			[]string{"kind"},
		),
		canceledTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_canceled_total",
				Help:      "Total number of user-cancelled entries",
			},
		),
		deliveryFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delivery_failures_total",
				Help:      "Total number of failed delivery attempts",
			},
		),
		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedule_rejections_total",
				Help:      "Total number of rejected scheduling requests",
			},
			[]string{"reason"},
		),
		pendingEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_entries",
				Help:      "Number of pending entries across all conversations",
			},
		),
		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of a single due-entry sweep",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
	}

	reg.MustRegister(
		m.scheduledTotal,
		m.firedTotal,
		m.canceledTotal,
		m.deliveryFailures,
		m.rejectedTotal,
		m.pendingEntries,
		m.sweepDuration,
	)
	return m
}

func (m *Metrics) RecordScheduled(kind Kind) {
	if m == nil {
		return
	}
	m.scheduledTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) RecordFired(kind Kind) {
	if m == nil {
		return
	}
	m.firedTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) RecordCanceled() {
	if m == nil {
		return
	}
	m.canceledTotal.Inc()
}

func (m *Metrics) RecordDeliveryFailure() {
	if m == nil {
		return
	}
	m.deliveryFailures.Inc()
}

func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pendingEntries.Set(float64(n))
}

func (m *Metrics) ObserveSweepDuration(seconds float64) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(seconds)
}
