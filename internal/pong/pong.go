package pong

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/DrC0ns0le/net-pingpong/internal/config"
	"github.com/DrC0ns0le/net-pingpong/internal/protocol"
	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// lookupTimeout bounds the reverse lookup of a sender; the echo waits on it.
const lookupTimeout = 2 * time.Second

// LookupFunc maps an address to host names, like net.Resolver.LookupAddr.
type LookupFunc func(ctx context.Context, addr string) ([]string, error)

type Stats struct {
	Serviced     int
	Remaining    int
	RecvErrors   int
	ShortWrites  int
	LookupErrors int
	Interrupted  bool
}

// Engine answers pings on a bound socket, one datagram at a time.
type Engine struct {
	cfg     config.Server
	conn    net.PacketConn
	out     io.Writer
	logger  logging.Logger
	metrics *Metrics
	lookup  LookupFunc

	// buf is capped at the largest IPv4 UDP payload so no datagram is truncated.
	buf []byte
}

func NewEngine(cfg config.Server, conn net.PacketConn, out io.Writer, logger logging.Logger, metrics *Metrics) *Engine {
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Engine{
		cfg:     cfg,
		conn:    conn,
		out:     out,
		logger:  logger.With("component", "pong", "listener", conn.LocalAddr().String()),
		metrics: metrics,
		lookup:  net.DefaultResolver.LookupAddr,
		buf:     make([]byte, protocol.MaxDatagramSize),
	}
}

// SetLookup replaces the reverse resolver used for display names.
func (e *Engine) SetLookup(fn LookupFunc) {
	e.lookup = fn
}

// Run echoes until cfg.Count datagrams have been received, the socket is
// closed, or ctx is cancelled. Receive errors do not consume the budget.
func (e *Engine) Run(ctx context.Context) Stats {
	stats := Stats{Remaining: e.cfg.Count}
	e.metrics.Remaining.Set(float64(stats.Remaining))

	stop := context.AfterFunc(ctx, func() {
		e.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	for stats.Remaining > 0 {
		if ctx.Err() != nil {
			stats.Interrupted = true
			break
		}

		n, peer, err := e.conn.ReadFrom(e.buf)
		if err != nil {
			if ctx.Err() != nil {
				stats.Interrupted = true
				break
			}
			if errors.Is(err, net.ErrClosed) {
				e.logger.Errorf("socket closed: %v", err)
				break
			}
			stats.RecvErrors++
			e.metrics.RecvErrors.Inc()
			e.logger.Warnf("receive failed, retrying: %v", err)
			continue
		}

		start := time.Now()
		payload := e.buf[:n]
		protocol.Transform(payload)

		fmt.Fprintf(e.out, "pong[%d]: received packet from %s\n", stats.Serviced, e.displayName(ctx, peer, &stats))
		e.logger.Debugf("received %d bytes from %s, digest %x", n, peer, protocol.Digest(payload))

		w, err := e.conn.WriteTo(payload, peer)
		if err != nil || w != n {
			stats.ShortWrites++
			e.metrics.ShortWrites.Inc()
			e.logger.Warnf("did not send correct packet size on return to %s: sent %d of %d: %v", peer, w, n, err)
		}
		e.metrics.ProcessTime.Observe(float64(time.Since(start).Microseconds()))

		stats.Serviced++
		stats.Remaining--
		e.metrics.Serviced.Inc()
		e.metrics.Bytes.Add(float64(n))
		e.metrics.Remaining.Set(float64(stats.Remaining))
	}

	return stats
}

// displayName resolves the sender's host name, falling back to its address.
func (e *Engine) displayName(ctx context.Context, peer net.Addr, stats *Stats) string {
	host := peer.String()
	if udp, ok := peer.(*net.UDPAddr); ok {
		host = udp.IP.String()
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	names, err := e.lookup(lookupCtx, host)
	if err != nil || len(names) == 0 {
		stats.LookupErrors++
		e.metrics.LookupErrors.Inc()
		e.logger.Errorf("reverse lookup of %s failed: %v", host, err)
		return host
	}
	return strings.TrimSuffix(names[0], ".")
}
