package metrics

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/DrC0ns0le/net-pingpong/internal/config"
	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry carrying the process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes reg at cfg.Path, plus a /hello liveness endpoint.
func Handler(cfg config.Metrics, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

// Serve runs the metrics server until ctx is done. It is a no-op when the
// port is 0.
func Serve(ctx context.Context, cfg config.Metrics, reg *prometheus.Registry, logger logging.Logger) error {
	if cfg.Port == 0 {
		return nil
	}

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Port))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on metrics port %d", cfg.Port)
	}

	srv := &http.Server{
		Handler:           Handler(cfg, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("serving metrics on %s%s", ln.Addr(), cfg.Path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "metrics server failed")
	}
	return nil
}
