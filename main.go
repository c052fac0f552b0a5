package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/airship/config"
	"github.com/pthm-cable/airship/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats, arrivals and bookmarks via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	resume := flag.String("resume", "", "Snapshot file to resume from")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config, which may be unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	limit := *maxTicks
	if limit == 0 {
		limit = cfg.Simulation.MaxTicks
	}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
		Resume:         *resume,
		StepsPerUpdate: *stepsPerUpdate,
		MaxTicks:       int32(limit),
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting headless simulation",
		"crafts", len(cfg.Fleet),
		"dt", cfg.Simulation.DT,
		"max_ticks", limit,
		"steps_per_update", *stepsPerUpdate,
	)

	for ctx.Err() == nil {
		g.UpdateHeadless()

		if g.Finished() {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
}
