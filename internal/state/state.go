// Package state holds the in-memory application state for each active user:
// profile, curriculum, goals and confessions, plus the transient flags the
// screen router reads. The state is authoritative for the session; the
// backend is a sync target, written through the gateway queue and never
// waited on.
package state

import (
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/gateway"
	"github.com/Tecnolosic/rompeelciclo/internal/gating"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/progress"
)

// AppState is the full working set for one user. Zero value is not usable;
// call Reset to seed defaults.
type AppState struct {
	Profile     model.Profile
	Pilares     []model.Pilar
	Goals       []model.Goal
	Confessions []model.Confession
	Sparks      []model.DailySpark

	Onboarded bool
	Guest     bool
	Verified  bool

	// Pre-auth routing choices, never persisted.
	ChoseStart bool
	ChoseAuth  bool
	Bunker     bool

	Steps gating.StepProgress
}

// Reset restores the freshly-installed defaults: empty identity, the static
// seven-pilar curriculum with only the first unlocked, and the three
// placeholder goals. Called at construction and on logout.
func (s *AppState) Reset() {
	*s = AppState{
		Pilares: model.DefaultPilares(),
		Goals:   model.DefaultGoals(),
	}
}

// Apply merges a loaded snapshot into the state. Each entity falls back to
// its seeded default when the snapshot carries nothing for it, so a partial
// load still yields a coherent state.
func (s *AppState) Apply(snap *gateway.Snapshot) {
	if snap.Profile != nil {
		s.Profile = *snap.Profile
		s.Verified = snap.Profile.IsVerified
		s.Guest = snap.Profile.IsGuest()
		// A profile with any identity data means onboarding finished on
		// some earlier session, even if the flag was never stored. The
		// guest sentinel name is not identity data: a fresh guest account
		// carries it before onboarding starts.
		s.Onboarded = snap.Profile.Profession != nil ||
			snap.Profile.NorthStar != "" ||
			snap.Profile.IsVerified ||
			(snap.Profile.Name != "" && !snap.Profile.IsGuest())
		if s.Onboarded {
			s.Steps = gating.StepProgress{
				ContractAccepted: true,
				Authenticated:    true,
				QuizDone:         true,
				ProfileDone:      true,
			}
		}
	}

	s.Pilares = model.MergePilares(model.DefaultPilares(), snap.Definitions, snap.Progress)

	if len(snap.Goals) > 0 {
		s.Goals = snap.Goals
	} else {
		s.Goals = model.DefaultGoals()
	}

	s.Confessions = snap.Confessions
	s.Sparks = snap.Sparks
}

// Level is the profile's current level, derived from XP.
func (s *AppState) Level() int {
	return progress.Level(s.Profile.XP)
}

// StreakDates lists the recent engagement dates the stats heatmap renders.
func StreakDates(interactions []model.Interaction) []time.Time {
	seen := make(map[string]bool, len(interactions))
	out := make([]time.Time, 0, len(interactions))
	for _, in := range interactions {
		day := in.CreatedAt.Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, in.CreatedAt.Truncate(24*time.Hour))
	}
	return out
}
