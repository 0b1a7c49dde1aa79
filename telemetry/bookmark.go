package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkGrowthSpurt     BookmarkType = "growth_spurt"
	BookmarkRejectionStreak BookmarkType = "rejection_streak"
	BookmarkStalled         BookmarkType = "stalled"
	BookmarkObstacleCleared BookmarkType = "obstacle_cleared"
	BookmarkMassMilestone   BookmarkType = "mass_milestone"
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
	stalledWindows int     // consecutive windows without an absorption
	nextMilestone  float64 // next mass that triggers a milestone
}

// NewBookmarkDetector creates a detector with the given history size.
// Milestones fire each time the mass doubles, starting from firstMilestone.
func NewBookmarkDetector(historySize int, firstMilestone float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		nextMilestone: firstMilestone,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkGrowthSpurt(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkRejectionStreak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStalled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.ObstaclesBroke > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkObstacleCleared,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Broke %d obstacle(s), spending %d limb(s)", stats.ObstaclesBroke, stats.LimbsConsumed),
		})
	}
	if b := bd.checkMilestone(stats); b != nil {
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

// checkGrowthSpurt fires when a window gains more than twice the rolling
// average mass gain.
func (bd *BookmarkDetector) checkGrowthSpurt(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.MassGained
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.MassGained > avg*2.0 && stats.Absorptions >= 3 {
		return &Bookmark{
			Type:        BookmarkGrowthSpurt,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Gained %.2f mass, %.1fx average (%.2f)", stats.MassGained, stats.MassGained/avg, avg),
		}
	}
	return nil
}

// checkRejectionStreak fires when most contacts in a window were too heavy.
func (bd *BookmarkDetector) checkRejectionStreak(stats WindowStats) *Bookmark {
	if stats.Rejections >= 5 && stats.Rejections > 2*stats.Absorptions {
		return &Bookmark{
			Type:        BookmarkRejectionStreak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d rejections against %d absorptions at mass %.1f", stats.Rejections, stats.Absorptions, stats.Mass),
		}
	}
	return nil
}

// checkStalled fires once after three windows without absorbing anything.
func (bd *BookmarkDetector) checkStalled(stats WindowStats) *Bookmark {
	if stats.Absorptions > 0 || stats.Shatters > 0 {
		bd.stalledWindows = 0
		return nil
	}
	bd.stalledWindows++
	if bd.stalledWindows == 3 {
		return &Bookmark{
			Type:        BookmarkStalled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No absorptions for %d windows at mass %.1f", bd.stalledWindows, stats.Mass),
		}
	}
	return nil
}

// checkMilestone fires when the mass crosses the next doubling.
func (bd *BookmarkDetector) checkMilestone(stats WindowStats) *Bookmark {
	if bd.nextMilestone <= 0 || stats.Mass < bd.nextMilestone {
		return nil
	}
	reached := bd.nextMilestone
	for bd.nextMilestone <= stats.Mass {
		bd.nextMilestone *= 2
	}
	return &Bookmark{
		Type:        BookmarkMassMilestone,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mass %.1f passed %.1f", stats.Mass, reached),
	}
}
