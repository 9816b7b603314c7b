package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DrC0ns0le/net-pingpong/internal/config"
	"github.com/DrC0ns0le/net-pingpong/internal/metrics"
	"github.com/DrC0ns0le/net-pingpong/internal/pong"
	"github.com/DrC0ns0le/net-pingpong/internal/resolver"
	"github.com/DrC0ns0le/net-pingpong/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	level := new(slog.LevelVar)
	logger := logging.New(stderr, level)

	cfg, err := config.ParseServer(args, stderr)
	if err != nil {
		logger.Errorf("invalid configuration: %v", err)
		return 1
	}
	if cfg.Verbose {
		level.Set(slog.LevelDebug)
	}

	reg := metrics.NewRegistry()
	go func() {
		if err := metrics.Serve(ctx, cfg.Metrics, reg, logger); err != nil {
			logger.Errorf("%v", err)
		}
	}()

	conn, err := resolver.New(logger).Listen(ctx, cfg.Port)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	defer conn.Close()

	logger.Debugf("established socket on %s", conn.LocalAddr())

	stats := pong.NewEngine(cfg, conn, stdout, logger, pong.NewMetrics(reg)).Run(ctx)
	if stats.Interrupted {
		logger.Infof("interrupted with %d pings remaining", stats.Remaining)
	}
	fmt.Fprintf(stdout, "nping: %d serviced: %d receive errors: %d pongport: %s\n",
		stats.Remaining, stats.Serviced, stats.RecvErrors, cfg.Port)

	return 0
}
