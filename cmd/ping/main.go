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
	"github.com/DrC0ns0le/net-pingpong/internal/ping"
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

	cfg, err := config.ParseClient(args, stderr)
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

	conn, dest, err := resolver.New(logger).Dial(ctx, cfg.Host, cfg.Port)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	defer conn.Close()

	if cfg.ICMP {
		b, err := ping.MeasureICMP(ctx, dest.IP.String(), cfg.ICMPCount)
		if err != nil {
			logger.Warnf("icmp baseline unavailable: %v", err)
		} else {
			fmt.Fprintf(stdout, "icmp baseline: %d/%d replies avg %v jitter %v loss %.1f%%\n",
				b.Received, b.Sent, b.AvgRtt, b.Jitter, b.Loss)
		}
	}

	engine := ping.NewEngine(cfg, conn, dest, stdout, logger, ping.NewMetrics(reg, cfg.Address()))
	stats := engine.Run(ctx)
	if stats.Interrupted {
		logger.Infof("interrupted after %d trials", stats.Attempted)
	}
	stats.Report(stdout, cfg.Host, cfg.Port)

	return 0
}
