package protocol

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Results recorded in the commands counter.
const (
	resultOK            = "ok"
	resultEncodingError = "encoding_error"
	resultInvalid       = "invalid"
	resultIgnored       = "ignored"
	resultUnimplemented = "unimplemented"
	resultFailed        = "failed"
)

// Metrics are the counters updated by the dispatcher.
type Metrics struct {
	Commands     *prometheus.CounterVec
	SignDuration prometheus.Histogram
}

// NewMetrics creates the dispatcher metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rsapss",
			Name:      "commands_total",
			Help:      "Commands processed, by command and result.",
		}, []string{"command", "result"}),
		SignDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rsapss",
			Name:      "sign_duration_seconds",
			Help:      "Time spent computing signatures.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) command(cmd string, result string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(cmd, result).Inc()
}

func (m *Metrics) signed(seconds float64) {
	if m == nil {
		return
	}
	m.SignDuration.Observe(seconds)
}
