package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, bt BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == bt {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_DivergenceSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Steady residual divergence
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick:  int32(i * 60),
			DivergenceMean: 0.001,
		})
	}

	// 10x the rolling mean
	bookmarks := bd.Check(WindowStats{
		WindowEndTick:  300,
		DivergenceMean: 0.01,
	})
	if !hasBookmark(bookmarks, BookmarkDivergenceSpike) {
		t.Error("expected divergence_spike bookmark")
	}
}

func TestBookmarkDetector_DivergenceSpikeNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 60, DivergenceMean: 0.001})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 120, DivergenceMean: 0.1})
	if hasBookmark(bookmarks, BookmarkDivergenceSpike) {
		t.Error("spike should not fire before the history window fills")
	}
}

func TestBookmarkDetector_DivergenceBelowFloor(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 60), DivergenceMean: 1e-6})
	}

	// Large ratio but still negligible in absolute terms
	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, DivergenceMean: 1e-4})
	if hasBookmark(bookmarks, BookmarkDivergenceSpike) {
		t.Error("spike below the floor should be ignored")
	}
}

func TestBookmarkDetector_DyePeakAndFade(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// First peak establishes a baseline without a bookmark
	if bookmarks := bd.Check(WindowStats{WindowEndTick: 60, TotalDensity: 10}); hasBookmark(bookmarks, BookmarkDyePeak) {
		t.Error("first dye window should not be a peak bookmark")
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 120, TotalDensity: 20})
	if !hasBookmark(bookmarks, BookmarkDyePeak) {
		t.Error("expected dye_peak bookmark")
	}

	// Small growth is not a new peak
	bookmarks = bd.Check(WindowStats{WindowEndTick: 180, TotalDensity: 22})
	if hasBookmark(bookmarks, BookmarkDyePeak) {
		t.Error("growth under the threshold should not be a peak")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 240, TotalDensity: 1.5})
	if !hasBookmark(bookmarks, BookmarkDyeFaded) {
		t.Error("expected dye_faded bookmark")
	}

	// Fade resets the peak, so it does not fire again
	bookmarks = bd.Check(WindowStats{WindowEndTick: 300, TotalDensity: 1.4})
	if hasBookmark(bookmarks, BookmarkDyeFaded) {
		t.Error("dye_faded should fire once per fade")
	}
}

func TestBookmarkDetector_Settled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 60, SpeedMax: 5})

	var fired int
	for i := 0; i < 5; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(120 + i*60),
			SpeedMax:      0.01,
		})
		if hasBookmark(bookmarks, BookmarkSettled) {
			fired++
			if i != settledWindows-1 {
				t.Errorf("settled fired after %d calm windows, want %d", i+1, settledWindows)
			}
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_QuietRun(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// A run that never moves produces nothing
	for i := 0; i < 20; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 60)})
		if len(bookmarks) > 0 {
			t.Errorf("window %d: unexpected bookmarks %v", i, bookmarks)
		}
	}
}
