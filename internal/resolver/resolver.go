package resolver

import (
	"context"
	"net"

	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// network restricts resolution and sockets to IPv4 datagrams.
const network = "udp4"

var (
	ErrNoAddress = errors.New("no usable address")
	ErrNoSocket  = errors.New("failed to create a socket")
	ErrNoBind    = errors.New("failed to bind to a socket")
)

// Resolver turns a host and service into candidate UDP endpoints and opens
// sockets on them.
type Resolver struct {
	r      *net.Resolver
	logger logging.Logger
}

func New(logger logging.Logger) *Resolver {
	return &Resolver{
		r:      net.DefaultResolver,
		logger: logger.With("component", "resolver"),
	}
}

// Resolve returns the IPv4 endpoints for host and service in resolver order.
// An empty host yields the wildcard address, for binding.
func (r *Resolver) Resolve(ctx context.Context, host, service string) ([]*net.UDPAddr, error) {
	port, err := r.r.LookupPort(ctx, network, service)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown service %q", service)
	}

	if host == "" {
		return []*net.UDPAddr{{IP: net.IPv4zero, Port: port}}, nil
	}

	ips, err := r.r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %q", host)
	}

	addrs := make([]*net.UDPAddr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, &net.UDPAddr{IP: ip, Port: port})
	}
	if len(addrs) == 0 {
		return nil, errors.Wrapf(ErrNoAddress, "host %q", host)
	}

	r.logger.Debugf("resolved %s:%s to %v", host, service, addrs)
	return addrs, nil
}

// Dial resolves host and service and opens an unconnected socket for the
// first candidate that accepts one. Datagrams are sent with WriteTo to the
// returned destination.
func (r *Resolver) Dial(ctx context.Context, host, service string) (*net.UDPConn, *net.UDPAddr, error) {
	addrs, err := r.Resolve(ctx, host, service)
	if err != nil {
		return nil, nil, err
	}

	var lastErr error
	for _, addr := range addrs {
		conn, err := net.ListenUDP(network, nil)
		if err != nil {
			r.logger.Debugf("socket for %s failed: %v", addr, err)
			lastErr = err
			continue
		}
		r.logger.Debugf("socket %s ready for %s", conn.LocalAddr(), addr)
		return conn, addr, nil
	}

	return nil, nil, errors.Wrapf(ErrNoSocket, "%s:%s: %v", host, service, lastErr)
}

// Listen binds the first wildcard candidate for service that accepts a bind.
func (r *Resolver) Listen(ctx context.Context, service string) (*net.UDPConn, error) {
	addrs, err := r.Resolve(ctx, "", service)
	if err != nil {
		return nil, err
	}
	return r.bindFirst(addrs)
}

func (r *Resolver) bindFirst(addrs []*net.UDPAddr) (*net.UDPConn, error) {
	var lastErr error
	for _, addr := range addrs {
		conn, err := net.ListenUDP(network, addr)
		if err != nil {
			if errors.Is(err, unix.EADDRINUSE) {
				r.logger.Warnf("address %s already in use, trying next candidate", addr)
			} else {
				r.logger.Warnf("bind %s failed: %v", addr, err)
			}
			lastErr = err
			continue
		}
		r.logger.Debugf("bound to %s", conn.LocalAddr())
		return conn, nil
	}

	return nil, errors.Wrapf(ErrNoBind, "%v", lastErr)
}
