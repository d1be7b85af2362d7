package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

func TestLoadJoinsAllEntities(t *testing.T) {
	t.Parallel()

	gw := New(
		&fakeProfileRepo{profile: &model.Profile{UserID: "u1", Name: "Ana"}},
		&fakeGoalRepo{goals: []model.Goal{{ID: "g1", GoalTitle: "Lanzar"}}},
		&fakeConfessionRepo{confessions: []model.Confession{{ID: "c1"}}},
		&fakePilarRepo{defs: []model.PilarDefinition{{ID: 0, Titulo: "X"}}},
		&fakeProgressRepo{progress: []model.PilarProgress{{PilarID: 0, Completed: true}}},
		&fakeSparkRepo{sparks: []model.DailySpark{{DayID: 1, Quote: "q"}}},
		&fakeInteractionRepo{interactions: []model.Interaction{{ActionType: "pilar_completed"}}},
	)

	snap := gw.Load(context.Background(), "u1")

	if snap.Profile == nil || snap.Profile.Name != "Ana" {
		t.Errorf("Profile = %+v", snap.Profile)
	}
	if len(snap.Goals) != 1 || len(snap.Confessions) != 1 || len(snap.Definitions) != 1 ||
		len(snap.Progress) != 1 || len(snap.Sparks) != 1 || len(snap.Interactions) != 1 {
		t.Errorf("snapshot incomplete: %+v", snap)
	}
}

func TestLoadDegradesPerEntity(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	gw := New(
		&fakeProfileRepo{err: boom},
		&fakeGoalRepo{err: boom},
		&fakeConfessionRepo{confessions: []model.Confession{{ID: "c1"}}},
		&fakePilarRepo{err: boom},
		&fakeProgressRepo{err: boom},
		&fakeSparkRepo{err: boom},
		&fakeInteractionRepo{err: boom},
	)

	snap := gw.Load(context.Background(), "u1")

	// A failed fetch degrades that entity only; the rest still arrives.
	if snap.Profile != nil {
		t.Errorf("Profile = %+v, want nil on error", snap.Profile)
	}
	if snap.Goals != nil {
		t.Errorf("Goals = %+v, want nil on error", snap.Goals)
	}
	if len(snap.Confessions) != 1 {
		t.Errorf("Confessions = %+v, the healthy fetch must survive", snap.Confessions)
	}
}

func TestLoadMissingProfileIsNotAnError(t *testing.T) {
	t.Parallel()

	gw := New(
		&fakeProfileRepo{}, // no profile row yet
		&fakeGoalRepo{},
		&fakeConfessionRepo{},
		&fakePilarRepo{},
		&fakeProgressRepo{},
		&fakeSparkRepo{},
		&fakeInteractionRepo{},
	)

	snap := gw.Load(context.Background(), "new-user")
	if snap == nil {
		t.Fatal("snapshot must always be returned")
	}
	if snap.Profile != nil {
		t.Errorf("Profile = %+v, want nil for a fresh user", snap.Profile)
	}
}
