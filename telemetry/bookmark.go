package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sakamata/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkFamine           BookmarkType = "famine"
	BookmarkPodExtinct       BookmarkType = "pod_extinct"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPreyPeak     int // peak prey count in recent history
	lastLivePods       int
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		cfg:          cfg,
		history:      make([]WindowStats, historySize),
		historySize:  historySize,
		lastLivePods: -1,
	}
}

// Reset forgets all history. Called when a new run starts.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentPreyPeak = 0
	bd.lastLivePods = -1
	bd.stableWindowsCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Famine and pod extinction need no history
	if b := bd.checkFamine(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPodExtinct(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Hunt breakthrough: prey eaten > 2x rolling average
		if b := bd.checkHuntBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Prey crash: dropped past the configured share of the recent peak
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable ecosystem: both populations present with low variance over 5+ windows
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.PreyCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.PreyCount
	}
	bd.lastLivePods = stats.LivePods

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

func (bd *BookmarkDetector) checkFamine(stats WindowStats) *Bookmark {
	minStarvations := bd.cfg.Famine.MinStarvations
	if minStarvations <= 0 || stats.Starvations < minStarvations {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFamine,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d predators starved in one window", stats.Starvations),
	}
}

func (bd *BookmarkDetector) checkPodExtinct(stats WindowStats) *Bookmark {
	if bd.lastLivePods < 0 || stats.LivePods >= bd.lastLivePods {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPodExtinct,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Live pods dropped from %d to %d", bd.lastLivePods, stats.LivePods),
	}
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalEaten int
	for _, h := range history {
		totalEaten += h.PreyEaten
	}
	avgEaten := float64(totalEaten) / float64(len(history))
	if avgEaten == 0 {
		return nil
	}

	if float64(stats.PreyEaten) > avgEaten*2.0 && stats.PreyEaten >= 3 {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d prey eaten is %.1fx average (%.2f)", stats.PreyEaten, float64(stats.PreyEaten)/avgEaten, avgEaten),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.recentPreyPeak)
	if dropPercent > bd.cfg.PreyCrash.DropPercent && stats.PreyCount <= bd.recentPreyPeak-bd.cfg.PreyCrash.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	// Need both populations present
	if stats.PreyCount < 10 || stats.PredCount < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var preySum, predSum float64
	for _, h := range recent {
		preySum += float64(h.PreyCount)
		predSum += float64(h.PredCount)
	}
	preyMean := preySum / 4
	predMean := predSum / 4

	var preyVar, predVar float64
	for _, h := range recent {
		preyDiff := float64(h.PreyCount) - preyMean
		predDiff := float64(h.PredCount) - predMean
		preyVar += preyDiff * preyDiff
		predVar += predDiff * predDiff
	}
	preyVar /= 4
	predVar /= 4

	preyCV := 0.0
	if preyMean > 0 {
		preyCV = preyVar / (preyMean * preyMean)
	}
	predCV := 0.0
	if predMean > 0 {
		predCV = predVar / (predMean * predMean)
	}

	if preyCV < 0.04 && predCV < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over 5+ windows", stats.PreyCount, stats.PredCount),
		}
	}

	return nil
}
