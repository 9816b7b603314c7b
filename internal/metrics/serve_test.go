package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DrC0ns0le/net-pingpong/internal/config"
	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesRegistry(t *testing.T) {
	reg := NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "pingpong_test_total",
		Help: "test counter",
	}).Add(3)

	srv := httptest.NewServer(Handler(config.Metrics{Path: "/metrics"}, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "pingpong_test_total 3")
	require.Contains(t, string(body), "go_goroutines")

	resp, err = http.Get(srv.URL + "/hello")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestServeDisabled(t *testing.T) {
	logger := logging.New(io.Discard, new(slog.LevelVar))
	err := Serve(context.Background(), config.Metrics{}, NewRegistry(), logger)
	require.NoError(t, err)
}
