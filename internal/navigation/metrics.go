package navigation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "navsync"

// Metrics holds the Prometheus collectors for navigation changes.
type Metrics struct {
	notifications prometheus.Counter
	notifyErrors  prometheus.Counter
	changes       *prometheus.CounterVec
	polls         prometheus.Counter
	historyDepth  prometheus.Gauge
}

// NewMetrics registers the collectors with reg. A nil reg gets a private
// registry so several services can coexist in one process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Navigation events fired",
		}),
		notifyErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notify_errors_total",
			Help:      "Navigation changes that could not be delivered",
		}),
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "changes_total",
			Help:      "Detected navigation changes by trigger",
		}, []string{"trigger"}),
		polls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "polls_total",
			Help:      "Fragment polls performed by the polling fallback",
		}),
		historyDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "emulated_history_depth",
			Help:      "Entries in the emulated history stack",
		}),
	}
}
