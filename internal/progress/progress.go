// Package progress holds the pure gamification arithmetic: streaks, XP,
// levels and the pilar unlock cascade. Nothing here touches storage; callers
// persist results separately.
package progress

import (
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

const (
	// StreakRewardXP is granted on every completed streak tick.
	StreakRewardXP = 100
	// XPPerLevel is the size of one level band.
	XPPerLevel = 1000
)

// Level converts accumulated XP to a level. Every display surface must use
// this function; divergent rounding between surfaces is a correctness bug.
func Level(xp int) int {
	return xp/XPPerLevel + 1
}

// RecordStreakTick advances the streak by one day. It never decays the
// current streak: streak breaks on missed days are intentionally absent
// (matching the product) and must not be invented here.
func RecordStreakTick(stats model.UserStats, now time.Time) model.UserStats {
	stats.CurrentStreak++
	if stats.CurrentStreak > stats.BestStreak {
		stats.BestStreak = stats.CurrentStreak
	}
	stats.LastActiveDate = &now
	stats.XP += StreakRewardXP
	return stats
}

// CompletePilar marks pilar id completed and unlocks the next one in the
// chain. Idempotent: completing an already-completed pilar changes nothing.
// The input slice is not modified.
func CompletePilar(pilares []model.Pilar, id int) []model.Pilar {
	out := make([]model.Pilar, len(pilares))
	copy(out, pilares)
	for i := range out {
		switch out[i].ID {
		case id:
			out[i].Completado = true
		case id + 1:
			out[i].Bloqueado = false
		}
	}
	return out
}

// LevelUpEvent is emitted when accumulated XP crosses a level threshold.
type LevelUpEvent struct {
	From int
	To   int
}

// LevelWatcher tracks the last observed level so a threshold crossing fires
// exactly once, not on every recomputation.
type LevelWatcher struct {
	prev int
}

func NewLevelWatcher(xp int) *LevelWatcher {
	return &LevelWatcher{prev: Level(xp)}
}

// Observe reports a LevelUpEvent when xp has crossed into a higher level
// since the previous call, and nil otherwise.
func (w *LevelWatcher) Observe(xp int) *LevelUpEvent {
	level := Level(xp)
	if level <= w.prev {
		return nil
	}
	ev := &LevelUpEvent{From: w.prev, To: level}
	w.prev = level
	return ev
}
