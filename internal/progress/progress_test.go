package progress

import (
	"testing"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1001, 2},
		{2500, 3},
		{10000, 11},
	}
	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestRecordStreakTick(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stats := model.UserStats{CurrentStreak: 4, BestStreak: 10, XP: 250}

	got := RecordStreakTick(stats, now)

	if got.CurrentStreak != 5 {
		t.Errorf("CurrentStreak = %d, want 5", got.CurrentStreak)
	}
	if got.BestStreak != 10 {
		t.Errorf("BestStreak = %d, want 10 (unchanged)", got.BestStreak)
	}
	if got.XP != 350 {
		t.Errorf("XP = %d, want 350", got.XP)
	}
	if got.LastActiveDate == nil || !got.LastActiveDate.Equal(now) {
		t.Errorf("LastActiveDate = %v, want %v", got.LastActiveDate, now)
	}
}

func TestRecordStreakTickNewBest(t *testing.T) {
	t.Parallel()

	stats := model.UserStats{CurrentStreak: 10, BestStreak: 10}
	got := RecordStreakTick(stats, time.Now())

	if got.CurrentStreak != 11 || got.BestStreak != 11 {
		t.Errorf("streak = %d/%d, want 11/11", got.CurrentStreak, got.BestStreak)
	}
}

func TestCompletePilar(t *testing.T) {
	t.Parallel()

	pilares := []model.Pilar{
		{ID: 0, Completado: true, Bloqueado: false},
		{ID: 1, Completado: false, Bloqueado: false},
		{ID: 2, Completado: false, Bloqueado: true},
		{ID: 3, Completado: false, Bloqueado: true},
	}

	got := CompletePilar(pilares, 1)

	if !got[1].Completado {
		t.Error("pilar 1 should be completed")
	}
	if got[2].Bloqueado {
		t.Error("pilar 2 should be unlocked")
	}
	if !got[3].Bloqueado {
		t.Error("pilar 3 should stay locked")
	}
	if pilares[1].Completado || !pilares[2].Bloqueado {
		t.Error("input slice must not be modified")
	}
}

func TestCompletePilarLastInChain(t *testing.T) {
	t.Parallel()

	pilares := []model.Pilar{
		{ID: 0, Completado: true},
		{ID: 1, Completado: false},
	}
	got := CompletePilar(pilares, 1)
	if !got[1].Completado {
		t.Error("last pilar should complete without a successor")
	}
}

func TestLevelWatcher(t *testing.T) {
	t.Parallel()

	w := NewLevelWatcher(900)

	if ev := w.Observe(950); ev != nil {
		t.Errorf("no threshold crossed, got %+v", ev)
	}

	ev := w.Observe(1100)
	if ev == nil {
		t.Fatal("expected level-up event")
	}
	if ev.From != 1 || ev.To != 2 {
		t.Errorf("event = %d->%d, want 1->2", ev.From, ev.To)
	}

	// Same level again must not re-fire.
	if ev := w.Observe(1200); ev != nil {
		t.Errorf("level unchanged, got %+v", ev)
	}

	// Jumping multiple levels fires once with the full span.
	ev = w.Observe(4200)
	if ev == nil || ev.From != 2 || ev.To != 5 {
		t.Errorf("event = %+v, want 2->5", ev)
	}
}
