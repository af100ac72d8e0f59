package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yarninisrael/OpenInsight/internal/collect"
	"github.com/yarninisrael/OpenInsight/internal/config"
	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/logger"
	"github.com/yarninisrael/OpenInsight/internal/pid"
	"github.com/yarninisrael/OpenInsight/internal/report"
	"github.com/yarninisrael/OpenInsight/internal/router"
)

var (
	cfg       *config.Config
	collector *collect.Collector
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Msg("Config loaded")

	collector = collect.New(collect.Config{
		Router: router.Config{
			Host:           cfg.Host,
			Port:           cfg.Port,
			User:           cfg.User,
			Password:       cfg.Password,
			KeyFile:        cfg.KeyFile,
			ConnectTimeout: time.Duration(cfg.ConnectTimeout) * time.Second,
		},
		Report:         report.Config{Path: cfg.Output},
		CommandTimeout: time.Duration(cfg.CommandTimeout) * time.Second,
	})
}

func main() {
	if err := pid.Write(); err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			logger.FatalWithCode(coded).Msg(coded.Error())
		}
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	cleanup()
}

func loop(ctx context.Context) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("invalid interval: %d", cfg.Interval)
	}

	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().
		Str("host", cfg.Host).
		Int("interval_seconds", cfg.Interval).
		Str("output", cfg.Output).
		Msg("Router monitor started")

	// The first harvest happens right away; the ticker paces the rest.
	runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			runCycle(ctx)
		}
	}
}

// runCycle logs a failed cycle and moves on. The poll interval is the
// retry mechanism, nothing here aborts the loop.
func runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	err := collector.Cycle(ctx)
	if err == nil {
		return
	}

	var coded errors.Error
	if errors.As(err, &coded) {
		logger.ErrorWithCode(coded).Msg("Cycle failed, waiting for next interval")
		return
	}
	logger.Error().Err(err).Msg("Cycle failed, waiting for next interval")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup() {
	if err := pid.Remove(); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}
	logger.Info().Msg("Exiting...")
}
