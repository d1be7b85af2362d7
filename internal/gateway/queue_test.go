package gateway

import (
	"testing"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

func newTestQueue() (*Queue, *fakeProfileRepo, *fakeGoalRepo, *fakeConfessionRepo, *fakeProgressRepo, *fakeInteractionRepo) {
	profiles := &fakeProfileRepo{}
	goals := &fakeGoalRepo{}
	confessions := &fakeConfessionRepo{}
	progress := &fakeProgressRepo{}
	interactions := &fakeInteractionRepo{}
	q := NewQueue(profiles, goals, confessions, progress, interactions)
	return q, profiles, goals, confessions, progress, interactions
}

func TestQueueSaveProfile(t *testing.T) {
	t.Parallel()

	q, profiles, _, _, _, _ := newTestQueue()
	defer q.Close()

	q.SaveProfile(model.Profile{UserID: "u1", Name: "Ana"})
	q.Wait()

	profiles.mu.Lock()
	defer profiles.mu.Unlock()
	if len(profiles.upserts) != 1 || profiles.upserts[0].Name != "Ana" {
		t.Errorf("upserts = %+v", profiles.upserts)
	}
}

func TestQueueSaveGoalRouting(t *testing.T) {
	t.Parallel()

	q, _, goals, _, _, _ := newTestQueue()
	defer q.Close()

	// Placeholder id: first persistence is an insert.
	q.SaveGoal(model.Goal{ID: "1", UserID: "u1", GoalTitle: "seed"})
	// Backend id but never loaded from the store: still an insert.
	q.SaveGoal(model.Goal{ID: "4f2c9e0a-9f14-4c6f-8d2e-0a6b1a7d9c31", UserID: "u1", GoalTitle: "fresh"})
	// Known backend row: upsert in place.
	q.SaveGoal(model.Goal{ID: "4f2c9e0a-9f14-4c6f-8d2e-0a6b1a7d9c31", UserID: "u1", GoalTitle: "known", Persisted: true})
	q.Wait()

	goals.mu.Lock()
	defer goals.mu.Unlock()
	if len(goals.inserts) != 2 {
		t.Errorf("inserts = %+v, want 2", goals.inserts)
	}
	if len(goals.upserts) != 1 || goals.upserts[0].GoalTitle != "known" {
		t.Errorf("upserts = %+v, want the known goal only", goals.upserts)
	}
}

func TestQueueDropsWhenClosed(t *testing.T) {
	t.Parallel()

	q, profiles, _, _, _, _ := newTestQueue()
	q.Close()

	q.SaveProfile(model.Profile{UserID: "u1"})
	q.Wait()

	profiles.mu.Lock()
	defer profiles.mu.Unlock()
	if len(profiles.upserts) != 0 {
		t.Errorf("closed queue applied a save: %+v", profiles.upserts)
	}
}

func TestQueueCloseDrainsPendingSaves(t *testing.T) {
	t.Parallel()

	q, _, _, confessions, _, _ := newTestQueue()
	for i := 0; i < 10; i++ {
		q.SaveConfession(model.Confession{ID: "c", UserID: "u1"})
	}
	q.Close()

	confessions.mu.Lock()
	defer confessions.mu.Unlock()
	if len(confessions.inserts) != 10 {
		t.Errorf("inserts = %d, want 10 (Close must drain)", len(confessions.inserts))
	}
}

func TestQueueLogInteraction(t *testing.T) {
	t.Parallel()

	q, _, _, _, _, interactions := newTestQueue()
	defer q.Close()

	q.LogInteraction(model.Interaction{UserID: "u1", ActionType: "spark_completed"})
	q.Wait()

	interactions.mu.Lock()
	defer interactions.mu.Unlock()
	if len(interactions.inserts) != 1 || interactions.inserts[0].ActionType != "spark_completed" {
		t.Errorf("inserts = %+v", interactions.inserts)
	}
}
