package gateway

import "github.com/prometheus/client_golang/prometheus"

// Prometheus command metrics.
var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wispgate_gateway_commands_total",
			Help: "Total number of proxied router commands.",
		},
		[]string{"protocol", "method", "outcome"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wispgate_gateway_command_duration_seconds",
			Help:    "Proxied router command duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"protocol"},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal)
	prometheus.MustRegister(commandDuration)
}
