package game

import (
	"log/slog"

	"github.com/pthm-cable/dye/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick)
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	if err := g.outputManager.WriteBookmarks(bookmarks); err != nil {
		slog.Error("failed to write bookmarks", "error", err)
	}
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(bm)
		}
	}
}

// saveSnapshot captures the flow state and saves it to disk.
func (g *Game) saveSnapshot(bm telemetry.Bookmark) {
	snapshot := telemetry.CaptureSnapshot(g.sim, g.tick, g.cfg.RampName(g.settings))

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick, "bookmark", string(bm.Type))
}
