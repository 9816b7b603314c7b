package ping

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Trials *prometheus.CounterVec
	RTT    prometheus.Histogram
	Total  prometheus.Counter
}

// NewMetrics registers the client collectors on reg, labelled with the target.
func NewMetrics(reg prometheus.Registerer, target string) *Metrics {
	labels := prometheus.Labels{"target": target}
	factory := promauto.With(reg)
	return &Metrics{
		Trials: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "pingpong_client_trials_total",
			Help:        "ping trials by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		RTT: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "pingpong_client_rtt_microseconds",
			Help:        "Distribution of successful round trip times in microseconds",
			Buckets:     []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 50000},
			ConstLabels: labels,
		}),
		Total: factory.NewCounter(prometheus.CounterOpts{
			Name:        "pingpong_client_rtt_seconds_total",
			Help:        "accumulated successful communication time in seconds",
			ConstLabels: labels,
		}),
	}
}

func (m *Metrics) observe(o Outcome) {
	m.Trials.WithLabelValues(o.String()).Inc()
}
