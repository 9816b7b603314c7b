package ping

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	probing "github.com/prometheus-community/pro-bing"
)

// Baseline is the ICMP echo reference taken before the UDP trials.
type Baseline struct {
	Sent     int
	Received int
	AvgRtt   time.Duration
	Jitter   time.Duration
	Loss     float64
}

// MeasureICMP pings host count times over ICMP. Raw sockets are used when
// running as root, unprivileged datagram ICMP otherwise.
func MeasureICMP(ctx context.Context, host string, count int) (Baseline, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return Baseline{}, errors.Wrapf(err, "failed to create pinger for %s", host)
	}
	pinger.SetNetwork("ip4")
	pinger.SetPrivileged(os.Geteuid() == 0)
	pinger.Count = count
	pinger.Interval = 250 * time.Millisecond
	pinger.Timeout = time.Duration(count)*pinger.Interval + 2*time.Second

	if err := pinger.RunWithContext(ctx); err != nil {
		return Baseline{}, errors.Wrapf(err, "icmp baseline to %s", host)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return Baseline{Sent: stats.PacketsSent, Loss: stats.PacketLoss}, errors.Errorf("no icmp replies from %s", host)
	}

	return Baseline{
		Sent:     stats.PacketsSent,
		Received: stats.PacketsRecv,
		AvgRtt:   stats.AvgRtt,
		Jitter:   stats.StdDevRtt,
		Loss:     stats.PacketLoss,
	}, nil
}
