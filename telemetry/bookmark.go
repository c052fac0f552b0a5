package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkDivergence    BookmarkType = "divergence"
	BookmarkErrorSpike    BookmarkType = "error_spike"
	BookmarkRouteComplete BookmarkType = "route_complete"
	BookmarkSettled       BookmarkType = "settled"
)

// Thresholds for bookmark detection, in degrees.
const (
	divergenceMinError = 90.0
	spikeMinError      = 45.0
	settledMaxP90      = 1.0
	settledWindows     = 3
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

// BookmarkDetector detects notable moments in the fleet's flight statistics.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	growingWindows     int  // consecutive windows with rising max heading error
	settledWindowCount int  // consecutive windows with the fleet on course
	settledReported    bool // settled fires once per settled stretch
	lastRoutesDone     int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkDivergence(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkErrorSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkRouteComplete(stats); b != nil {
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

// last returns the most recently added window.
func (bd *BookmarkDetector) last() WindowStats {
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx]
}

// checkDivergence fires when the worst heading error has grown for three consecutive
// windows and is past a right angle.
func (bd *BookmarkDetector) checkDivergence(stats WindowStats) *Bookmark {
	if stats.Samples > 0 && stats.HeadingErrorMax > bd.last().HeadingErrorMax {
		bd.growingWindows++
	} else {
		bd.growingWindows = 0
	}

	if bd.growingWindows == 3 && stats.HeadingErrorMax > divergenceMinError {
		return &Bookmark{
			Type:        BookmarkDivergence,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Max heading error rose for 3 windows to %.1f deg", stats.HeadingErrorMax),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkErrorSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.HeadingErrorMax
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.HeadingErrorMax > avg*2.0 && stats.HeadingErrorMax > spikeMinError {
		return &Bookmark{
			Type:        BookmarkErrorSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Max heading error %.1f is %.1fx average (%.1f)", stats.HeadingErrorMax, stats.HeadingErrorMax/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkRouteComplete(stats WindowStats) *Bookmark {
	done := stats.RoutesDone
	prev := bd.lastRoutesDone
	bd.lastRoutesDone = done
	if done <= prev {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkRouteComplete,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d routes complete", done, stats.Crafts),
	}
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Samples == 0 || stats.HeadingErrorP90 >= settledMaxP90 {
		bd.settledWindowCount = 0
		bd.settledReported = false
		return nil
	}

	bd.settledWindowCount++
	if bd.settledWindowCount < settledWindows || bd.settledReported {
		return nil
	}
	bd.settledReported = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Fleet on course for %d windows (p90 error %.2f deg)", bd.settledWindowCount, stats.HeadingErrorP90),
	}
}
