package resolver

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"

	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestResolver() *Resolver {
	return New(logging.New(io.Discard, new(slog.LevelVar)))
}

func TestResolveNumeric(t *testing.T) {
	r := newTestResolver()
	addrs, err := r.Resolve(context.Background(), "127.0.0.1", "1266")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	require.Equal(t, "127.0.0.1:1266", addrs[0].String())
}

func TestResolveWildcard(t *testing.T) {
	r := newTestResolver()
	addrs, err := r.Resolve(context.Background(), "", "1266")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	require.True(t, addrs[0].IP.Equal(net.IPv4zero))
	require.Equal(t, 1266, addrs[0].Port)
}

func TestResolveOnlyIPv4(t *testing.T) {
	r := newTestResolver()
	addrs, err := r.Resolve(context.Background(), "localhost", "1266")
	require.NoError(t, err)
	for _, a := range addrs {
		require.NotNil(t, a.IP.To4(), "got %s", a)
	}
}

func TestResolveUnknownService(t *testing.T) {
	r := newTestResolver()
	_, err := r.Resolve(context.Background(), "127.0.0.1", "no-such-service-xyz")
	require.Error(t, err)
}

func TestDialUnresolvableHost(t *testing.T) {
	r := newTestResolver()
	conn, addr, err := r.Dial(context.Background(), "unresolvable.invalid", "1266")
	require.Error(t, err)
	require.Nil(t, conn)
	require.Nil(t, addr)
}

func TestDialLoopback(t *testing.T) {
	r := newTestResolver()
	conn, addr, err := r.Dial(context.Background(), "127.0.0.1", "9")
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, "127.0.0.1:9", addr.String())
	// unconnected: no remote address is pinned to the socket
	require.Nil(t, conn.RemoteAddr())
}

func TestListenEphemeral(t *testing.T) {
	r := newTestResolver()
	conn, err := r.Listen(context.Background(), "0")
	require.NoError(t, err)
	defer conn.Close()
	require.NotZero(t, conn.LocalAddr().(*net.UDPAddr).Port)
}

func TestListenPortInUse(t *testing.T) {
	busy, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	require.NoError(t, err)
	defer busy.Close()
	port := strconv.Itoa(busy.LocalAddr().(*net.UDPAddr).Port)

	r := newTestResolver()
	conn, err := r.Listen(context.Background(), port)
	require.Error(t, err)
	require.Nil(t, conn)
	require.True(t, errors.Is(err, ErrNoBind))
}

func TestBindFirstSkipsFailingCandidates(t *testing.T) {
	busy, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer busy.Close()

	r := newTestResolver()
	conn, err := r.bindFirst([]*net.UDPAddr{
		busy.LocalAddr().(*net.UDPAddr),
		{IP: net.IPv4(127, 0, 0, 1)},
	})
	require.NoError(t, err)
	defer conn.Close()
	require.NotEqual(t, busy.LocalAddr().String(), conn.LocalAddr().String())
}
