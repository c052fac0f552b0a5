package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Divergence(t *testing.T) {
	bd := NewBookmarkDetector(10)

	errs := []float64{20, 40, 80, 160}
	var last []Bookmark
	for i, e := range errs {
		last = bd.Check(WindowStats{
			WindowEndTick:   int32((i + 1) * 100),
			Samples:         10,
			HeadingErrorMax: e,
			HeadingErrorP90: e,
		})
		if i < len(errs)-1 && hasBookmark(last, BookmarkDivergence) {
			t.Fatalf("divergence fired early at window %d", i)
		}
	}
	if !hasBookmark(last, BookmarkDivergence) {
		t.Errorf("expected divergence bookmark, got %v", last)
	}
}

func TestBookmarkDetector_ErrorSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), Samples: 10, HeadingErrorMax: 20, HeadingErrorP90: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, Samples: 10, HeadingErrorMax: 90, HeadingErrorP90: 50})
	if !hasBookmark(bookmarks, BookmarkErrorSpike) {
		t.Error("expected error_spike bookmark")
	}
}

func TestBookmarkDetector_RouteComplete(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if b := bd.Check(WindowStats{Crafts: 2, RoutesDone: 0}); hasBookmark(b, BookmarkRouteComplete) {
		t.Error("route_complete fired with no routes done")
	}
	if b := bd.Check(WindowStats{Crafts: 2, RoutesDone: 1}); !hasBookmark(b, BookmarkRouteComplete) {
		t.Error("expected route_complete bookmark")
	}
	if b := bd.Check(WindowStats{Crafts: 2, RoutesDone: 1}); hasBookmark(b, BookmarkRouteComplete) {
		t.Error("route_complete fired twice for the same route")
	}
}

func TestBookmarkDetector_SettledOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired int
	for i := 0; i < 6; i++ {
		b := bd.Check(WindowStats{WindowEndTick: int32(i * 100), Samples: 10, HeadingErrorP90: 0.1, HeadingErrorMax: 0.2})
		if hasBookmark(b, BookmarkSettled) {
			fired++
			if i != settledWindows-1 {
				t.Errorf("settled fired at window %d, want %d", i, settledWindows-1)
			}
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times, want 1", fired)
	}

	// Losing course re-arms the detector.
	bd.Check(WindowStats{Samples: 10, HeadingErrorP90: 30, HeadingErrorMax: 30})
	fired = 0
	for i := 0; i < settledWindows; i++ {
		if hasBookmark(bd.Check(WindowStats{Samples: 10, HeadingErrorP90: 0.1}), BookmarkSettled) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times after re-arm, want 1", fired)
	}
}
