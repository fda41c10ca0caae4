package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dye/config"
	"github.com/pthm-cable/dye/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the configured emitters")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logStats := flag.Bool("log-stats", false, "Log window stats, perf and bookmarks")
	statsWindow := flag.Float64("stats-window", 0, "Stats window in seconds of sim time (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Save a flow snapshot here on every bookmark")
	snapshot := flag.String("snapshot", "", "Start from a snapshot file")
	outputDir := flag.String("output-dir", "", "Directory for telemetry CSV, config and run summary")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Ticks per update (0 = use config)")
	emitters := flag.Bool("emitters", false, "Start with scripted strokes enabled in graphical mode")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "dye: -log-level: %v\n", err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Snapshot:       *snapshot,
		Emitters:       *emitters,
	}

	var err error
	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = runHeadless(ctx, opts, *maxTicks)
		stop()
	} else {
		err = runWindow(opts, *maxTicks)
	}
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps until maxTicks or until ctx is cancelled. The run
// summary is written either way.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int) error {
	if maxTicks <= 0 {
		slog.Warn("headless run without -max-ticks runs until interrupted")
	}

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation", "max_ticks", maxTicks)
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return nil
		default:
		}

		g.UpdateHeadless()
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
	}
}

func runWindow(opts game.Options, maxTicks int) error {
	cfg := config.Cfg()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), game.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
