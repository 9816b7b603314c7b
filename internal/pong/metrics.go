package pong

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Serviced      prometheus.Counter
	Bytes         prometheus.Counter
	RecvErrors    prometheus.Counter
	ShortWrites   prometheus.Counter
	LookupErrors  prometheus.Counter
	ProcessTime   prometheus.Histogram
	Remaining prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Serviced: factory.NewCounter(prometheus.CounterOpts{
			Name: "pingpong_server_serviced_total",
			Help: "datagrams received and echoed",
		}),
		Bytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "pingpong_server_bytes_total",
			Help: "payload bytes received",
		}),
		RecvErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pingpong_server_receive_errors_total",
			Help: "failed receives, not counted against the ping budget",
		}),
		ShortWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "pingpong_server_short_writes_total",
			Help: "echoes sent with fewer bytes than received",
		}),
		LookupErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pingpong_server_lookup_errors_total",
			Help: "failed reverse lookups of senders",
		}),
		ProcessTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pingpong_server_process_duration_microseconds",
			Help:    "Distribution of per-datagram handling durations in microseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		Remaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pingpong_server_remaining",
			Help: "pings left before the server exits",
		}),
	}
}
