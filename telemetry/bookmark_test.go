package telemetry

import (
	"testing"

	"github.com/pthm-cable/sakamata/config"
)

func init() {
	config.MustInit("")
}

func newDetector() *BookmarkDetector {
	return NewBookmarkDetector(10, config.Cfg().Bookmarks)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyEaten: 2, LivePods: 3})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, PreyEaten: 8, LivePods: 3})
	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 100, PredCount: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, PreyCount: 50, PredCount: 10})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}

	// Peak resets after a crash
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, PreyCount: 45, PredCount: 10})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("small drop after a crash should not re-trigger")
	}
}

func TestBookmarkDetector_PreyCrashNeedsMinDrop(t *testing.T) {
	bd := newDetector()
	bd.Check(WindowStats{PreyCount: 20})

	// 50% drop but only 10 prey, below min_drop
	if hasBookmark(bd.Check(WindowStats{PreyCount: 10}), BookmarkPreyCrash) {
		t.Error("drop smaller than min_drop should not trigger")
	}
}

func TestBookmarkDetector_Famine(t *testing.T) {
	bd := newDetector()
	minStarved := config.Cfg().Bookmarks.Famine.MinStarvations

	if hasBookmark(bd.Check(WindowStats{Starvations: minStarved - 1}), BookmarkFamine) {
		t.Error("famine below threshold")
	}
	if !hasBookmark(bd.Check(WindowStats{Starvations: minStarved}), BookmarkFamine) {
		t.Error("expected famine bookmark")
	}
}

func TestBookmarkDetector_PodExtinct(t *testing.T) {
	bd := newDetector()

	if hasBookmark(bd.Check(WindowStats{LivePods: 4}), BookmarkPodExtinct) {
		t.Error("first window has nothing to compare against")
	}
	if hasBookmark(bd.Check(WindowStats{LivePods: 4}), BookmarkPodExtinct) {
		t.Error("unchanged pod count should not trigger")
	}
	if !hasBookmark(bd.Check(WindowStats{LivePods: 3}), BookmarkPodExtinct) {
		t.Error("expected pod_extinct bookmark")
	}

	bd.Reset()
	if hasBookmark(bd.Check(WindowStats{LivePods: 1}), BookmarkPodExtinct) {
		t.Error("reset should forget the previous run's pod count")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newDetector()

	found := false
	for i := 0; i < 10; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			PreyCount:     100,
			PredCount:     20,
			LivePods:      5,
		})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			if found {
				t.Fatal("stable_ecosystem should trigger once")
			}
			found = true
		}
	}
	if !found {
		t.Error("expected stable_ecosystem bookmark")
	}
}
