package ping

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/DrC0ns0le/net-pingpong/internal/config"
	"github.com/DrC0ns0le/net-pingpong/internal/protocol"
	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome is the terminal state of a single trial.
type Outcome int

const (
	// Success means the reply validated and the trial was timed
	Success Outcome = iota
	// Skipped means a short send or receive; the run continues
	Skipped
	// Aborted means the reply failed validation; the run stops
	Aborted
	// interrupted means the context was cancelled mid-trial
	interrupted
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Aborted:
		return "aborted"
	default:
		return "interrupted"
	}
}

// Engine runs the ping side of the exchange over an unconnected socket.
type Engine struct {
	cfg     config.Client
	conn    net.PacketConn
	dest    net.Addr
	out     io.Writer
	logger  logging.Logger
	metrics *Metrics

	outbound []byte
	// inbound has one spare byte so an oversize reply shows up as a length
	// mismatch instead of being truncated to fit.
	inbound []byte
}

// NewEngine allocates the datagram buffers for cfg. A nil metrics gets a
// private registry.
func NewEngine(cfg config.Client, conn net.PacketConn, dest net.Addr, out io.Writer, logger logging.Logger, metrics *Metrics) *Engine {
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry(), cfg.Address())
	}

	e := &Engine{
		cfg:      cfg,
		conn:     conn,
		dest:     dest,
		out:      out,
		logger:   logger.With("component", "ping", "target", dest.String()),
		metrics:  metrics,
		outbound: make([]byte, cfg.Size),
		inbound:  make([]byte, cfg.Size+1),
	}
	protocol.Fill(e.outbound)
	return e
}

// Reply returns the most recently received datagram.
func (e *Engine) Reply() []byte {
	return e.inbound[:e.cfg.Size]
}

// Run performs up to cfg.Count trials. It returns early when a reply fails
// validation or ctx is cancelled; cancellation unblocks pending socket calls.
func (e *Engine) Run(ctx context.Context) Stats {
	stats := Stats{
		Requested: e.cfg.Count,
		Size:      e.cfg.Size,
		Samples:   make([]time.Duration, 0, min(e.cfg.Count, 1024)),
	}

	stop := context.AfterFunc(ctx, func() {
		e.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	e.logger.Debugf("starting %d trials of %d bytes", e.cfg.Count, e.cfg.Size)

	for seq := 0; seq < e.cfg.Count; seq++ {
		if ctx.Err() != nil {
			stats.Interrupted = true
			break
		}

		stats.Attempted++
		elapsed, outcome := e.trial(ctx, seq)
		if outcome == interrupted {
			stats.Attempted--
			stats.Interrupted = true
			break
		}
		e.metrics.observe(outcome)

		if outcome == Skipped {
			stats.Skipped++
			continue
		}
		if outcome == Aborted {
			stats.Aborted = true
			break
		}

		stats.record(elapsed)
		e.metrics.RTT.Observe(float64(elapsed.Microseconds()))
		e.metrics.Total.Add(elapsed.Seconds())
		fmt.Fprintf(e.out, "\nSuccess in %f seconds\n", elapsed.Seconds())
	}

	e.logger.Debugf("finished: %d/%d successful, %d skipped, aborted=%t",
		stats.Succeeded, stats.Attempted, stats.Skipped, stats.Aborted)

	return stats
}

func (e *Engine) trial(ctx context.Context, seq int) (time.Duration, Outcome) {
	start := time.Now()

	n, err := e.conn.WriteTo(e.outbound, e.dest)
	if err != nil || n != len(e.outbound) {
		if ctx.Err() != nil {
			return 0, interrupted
		}
		e.logger.Debugf("trial %d: sent %d of %d bytes: %v", seq, n, len(e.outbound), err)
		fmt.Fprintf(e.out, "Failed to send to socket. Skipping...\n")
		return 0, Skipped
	}

	n, from, err := e.conn.ReadFrom(e.inbound)
	if err != nil || n != e.cfg.Size {
		if ctx.Err() != nil {
			return 0, interrupted
		}
		e.logger.Debugf("trial %d: received %d bytes, want %d: %v", seq, n, e.cfg.Size, err)
		fmt.Fprintf(e.out, "Failed to receive: message length mismatch. Skipping...\n")
		return 0, Skipped
	}

	if idx, ok := protocol.Validate(e.Reply()); !ok {
		e.logger.Errorf("trial %d: reply from %s failed validation, digest %x", seq, from, protocol.Digest(e.Reply()))
		fmt.Fprintf(e.out, "Failed to validate res at index %d. Expected %d, got %d.\n",
			idx, protocol.Expected, e.inbound[idx])
		return 0, Aborted
	}

	return time.Since(start), Success
}
