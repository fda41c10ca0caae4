package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkDivergenceSpike BookmarkType = "divergence_spike"
	BookmarkDyePeak         BookmarkType = "dye_peak"
	BookmarkDyeFaded        BookmarkType = "dye_faded"
	BookmarkSettled         BookmarkType = "settled"
)

// Bookmark thresholds.
const (
	spikeFactor      = 3.0  // window divergence vs rolling mean
	spikeFloor       = 1e-3 // ignore spikes below this mean |div|
	peakGrowth       = 1.25 // new peak must beat the old one by this factor
	fadeFraction     = 0.1  // dye below this share of the peak has faded
	settledSpeed     = 0.05 // cells per second
	activeSpeed      = 1.0
	settledWindows   = 3
	minHistoryWindow = 3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	dyePeak     float64 // highest total dye since the last fade
	wasActive   bool    // flow has moved since the last settle
	calmWindows int     // consecutive windows below settledSpeed
	scratchDivs []float64
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < minHistoryWindow+1 {
		historySize = minHistoryWindow + 1
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkDivergenceSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDye(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkDivergenceSpike flags windows where the projection left far more
// divergence than usual, typically after a hard stroke with few iterations.
func (bd *BookmarkDetector) checkDivergenceSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < minHistoryWindow {
		return nil
	}

	bd.scratchDivs = bd.scratchDivs[:0]
	for _, h := range history {
		bd.scratchDivs = append(bd.scratchDivs, h.DivergenceMean)
	}
	avg := stat.Mean(bd.scratchDivs, nil)
	if avg <= 0 {
		return nil
	}

	if stats.DivergenceMean > avg*spikeFactor && stats.DivergenceMean > spikeFloor {
		return &Bookmark{
			Type:        BookmarkDivergenceSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean |div| %.4g is %.1fx average (%.4g)", stats.DivergenceMean, stats.DivergenceMean/avg, avg),
		}
	}
	return nil
}

// checkDye tracks the total dye against its running peak.
func (bd *BookmarkDetector) checkDye(stats WindowStats) *Bookmark {
	total := stats.TotalDensity

	if bd.dyePeak > 0 && total < bd.dyePeak*fadeFraction {
		oldPeak := bd.dyePeak
		bd.dyePeak = total
		return &Bookmark{
			Type:        BookmarkDyeFaded,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Dye faded to %.3g from peak %.3g", total, oldPeak),
		}
	}

	if total > bd.dyePeak*peakGrowth && total > 1 {
		oldPeak := bd.dyePeak
		bd.dyePeak = total
		if oldPeak > 0 {
			return &Bookmark{
				Type:        BookmarkDyePeak,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("Dye reached %.3g (previous peak %.3g)", total, oldPeak),
			}
		}
	}
	return nil
}

// checkSettled fires once the flow has come to rest after moving.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.SpeedMax > activeSpeed {
		bd.wasActive = true
	}

	if stats.SpeedMax >= settledSpeed {
		bd.calmWindows = 0
		return nil
	}

	bd.calmWindows++
	if bd.wasActive && bd.calmWindows >= settledWindows {
		bd.wasActive = false
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Flow at rest for %d windows", bd.calmWindows),
		}
	}
	return nil
}
