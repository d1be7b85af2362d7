package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tecnolosic/rompeelciclo/internal/gateway"
	"github.com/Tecnolosic/rompeelciclo/internal/gating"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/progress"
	"github.com/Tecnolosic/rompeelciclo/internal/session"
)

// Silo owns one user's state, session and save queue. All mutations go
// through its methods under a single mutex; every mutation updates the local
// state first and then enqueues the save, so callers never block on the
// backend.
type Silo struct {
	userID   string
	sessions *session.Manager
	gw       *gateway.Gateway
	queue    *gateway.Queue

	mu          sync.Mutex
	app         AppState
	watcher     *progress.LevelWatcher
	unsubscribe func()
}

func NewSilo(userID string, sessions *session.Manager, gw *gateway.Gateway, queue *gateway.Queue) *Silo {
	s := &Silo{
		userID:   userID,
		sessions: sessions,
		gw:       gw,
		queue:    queue,
	}
	s.app.Reset()
	s.watcher = progress.NewLevelWatcher(0)
	s.unsubscribe = sessions.Subscribe(func(sess *session.Session) {
		if sess == nil {
			s.Reset()
		}
	})
	return s
}

// Load resolves the session and hydrates the state from the backend. Safe to
// call again; a reload replaces the working set.
func (s *Silo) Load(ctx context.Context) {
	sess := s.sessions.Init(ctx)
	if sess == nil {
		return
	}
	snap := s.gw.Load(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Apply(snap)
	if !s.app.Onboarded {
		// A live session means the contract and credential steps already
		// happened; a reload resumes at the quiz, not the contract.
		s.app.Steps.ContractAccepted = true
		s.app.Steps.Authenticated = true
	}
	s.watcher = progress.NewLevelWatcher(s.app.Profile.XP)
}

// Reset wipes the state back to defaults. Triggered by logout.
func (s *Silo) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Reset()
	s.watcher = progress.NewLevelWatcher(0)
}

// Close detaches the silo from session notifications.
func (s *Silo) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// State returns a copy of the working set for rendering. Slices share
// backing arrays; callers must not mutate them.
func (s *Silo) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app
}

// Screen resolves the current top-level screen from the gating flags.
func (s *Silo) Screen() gating.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gating.Resolve(s.flags())
}

// ResumeStep returns the onboarding step to resume at.
func (s *Silo) ResumeStep() gating.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gating.ResumeStep(s.app.Steps, s.app.Guest)
}

// flags snapshots the routing inputs; callers hold s.mu.
func (s *Silo) flags() gating.Flags {
	return gating.Flags{
		SessionResolved: s.sessions.Resolved(),
		HasSession:      s.sessions.Current() != nil,
		ChoseStart:      s.app.ChoseStart,
		ChoseAuth:       s.app.ChoseAuth,
		Onboarded:       s.app.Onboarded,
		Verified:        s.app.Verified,
		Guest:           s.app.Guest,
		IdentityName:    s.app.Profile.Name,
		Bunker:          s.app.Bunker,
	}
}

// ChooseStart records the landing-page "start" tap.
func (s *Silo) ChooseStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.ChoseStart = true
	s.app.ChoseAuth = false
}

// ChooseAuth records the "I already have an account" choice.
func (s *Silo) ChooseAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.ChoseAuth = true
}

// AcceptContract completes the onboarding contract step.
func (s *Silo) AcceptContract() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Steps.ContractAccepted = true
}

// MarkAuthenticated advances onboarding past the auth step after a
// successful signup or signin.
func (s *Silo) MarkAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Steps.Authenticated = true
}

// EnterGuest switches to guest mode: the sentinel identity name is set and
// both authentication and verification stop gating the user.
func (s *Silo) EnterGuest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Guest = true
	s.app.Profile.Name = model.GuestName
	s.app.Steps.Authenticated = true
}

// SubmitQuiz records the identity quiz answers and advances onboarding.
func (s *Silo) SubmitQuiz(currentIdentity, newIdentity, blockerReason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Profile.CurrentIdentity = currentIdentity
	s.app.Profile.NewIdentity = newIdentity
	if blockerReason != "" {
		s.app.Profile.BlockerReason = &blockerReason
	}
	s.app.Steps.QuizDone = true
	s.saveProfileLocked()
}

// CompleteProfile finishes onboarding with the user's identity details and
// persists the full profile.
func (s *Silo) CompleteProfile(name, dateOfBirth, profession, northStar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.app.Guest {
		s.app.Profile.Name = strings.TrimSpace(name)
	}
	if dateOfBirth != "" {
		s.app.Profile.DateOfBirth = &dateOfBirth
	}
	if profession != "" {
		s.app.Profile.Profession = &profession
	}
	s.app.Profile.NorthStar = northStar
	s.app.Steps.ProfileDone = true
	s.app.Onboarded = true
	s.saveProfileLocked()
	s.logInteractionLocked("onboarding_completed", nil)
}

// UpdateIdentity applies a profile edit from the settings surface.
func (s *Silo) UpdateIdentity(northStar, newIdentity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if northStar != "" {
		s.app.Profile.NorthStar = northStar
	}
	if newIdentity != "" {
		s.app.Profile.NewIdentity = newIdentity
	}
	s.saveProfileLocked()
}

// Verify flips the license gate open, e.g. after a webhook or a code check.
func (s *Silo) Verify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Verified = true
	s.app.Profile.IsVerified = true
	s.saveProfileLocked()
}

// SetBunker toggles the focus-lock overlay. Never persisted.
func (s *Silo) SetBunker(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.Bunker = on
}

// CompletePilar marks the pilar done, unlocks the next one, advances the
// streak and awards XP. Completing an already-completed pilar is a no-op.
// Returns the level-up event when the XP gain crossed a threshold.
func (s *Silo) CompletePilar(id int) (*progress.LevelUpEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *model.Pilar
	for i := range s.app.Pilares {
		if s.app.Pilares[i].ID == id {
			current = &s.app.Pilares[i]
			break
		}
	}
	if current == nil || current.Completado || current.Bloqueado {
		return nil, false
	}

	now := time.Now()
	s.app.Pilares = progress.CompletePilar(s.app.Pilares, id)

	stats := s.app.Profile.Stats()
	stats = progress.RecordStreakTick(stats, now)
	stats.TotalMilestones++
	s.app.Profile.ApplyStats(stats)

	s.queue.SavePilarProgress(model.PilarProgress{
		UserID: s.userID, PilarID: id, Completed: true, Unlocked: true, UpdatedAt: now,
	})
	for i := range s.app.Pilares {
		if s.app.Pilares[i].ID == id+1 {
			s.queue.SavePilarProgress(model.PilarProgress{
				UserID: s.userID, PilarID: id + 1, Completed: false, Unlocked: true, UpdatedAt: now,
			})
			break
		}
	}
	s.saveProfileLocked()
	s.logInteractionLocked("pilar_completed", model.Metadata{"pilar_id": id})

	return s.watcher.Observe(s.app.Profile.XP), true
}

// UpsertGoal applies a goal edit, recomputes its progress and queues the
// save. A goal unknown to the state is appended.
func (s *Silo) UpsertGoal(goal model.Goal) model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal.UserID = s.userID
	goal.RecomputeProgress()
	goal.UpdatedAt = time.Now()

	found := -1
	for i := range s.app.Goals {
		if s.app.Goals[i].ID == goal.ID {
			goal.Persisted = s.app.Goals[i].Persisted
			goal.CreatedAt = s.app.Goals[i].CreatedAt
			found = i
			break
		}
	}
	if found < 0 {
		goal.CreatedAt = goal.UpdatedAt
	}

	if !goal.Persisted || !model.IsBackendID(goal.ID) {
		// First save of a locally-seeded goal: mint the backend id here so
		// the working set and the stored row agree. The queued copy still
		// carries Persisted=false and routes to an insert; the in-memory
		// goal is flagged persisted so the next edit takes the upsert path.
		goal.ID = uuid.NewString()
		s.queue.SaveGoal(goal)
		goal.Persisted = true
	} else {
		s.queue.SaveGoal(goal)
	}

	if found >= 0 {
		s.app.Goals[found] = goal
	} else {
		s.app.Goals = append(s.app.Goals, goal)
	}
	s.logInteractionLocked("goal_updated", model.Metadata{"goal_title": goal.GoalTitle})
	return goal
}

// AddConfession records a journal entry, newest first, and queues the save.
func (s *Silo) AddConfession(c model.Confession) model.Confession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UserID = s.userID
	now := time.Now()
	c.CreatedAt = now
	if c.Timestamp == "" {
		c.Timestamp = now.Format("15:04")
	}
	if c.Date == "" {
		c.Date = now.Format("2006-01-02")
	}

	s.app.Confessions = append([]model.Confession{c}, s.app.Confessions...)
	s.queue.SaveConfession(c)
	s.logInteractionLocked("confession_added", model.Metadata{"type": string(c.Type)})
	return c
}

// LogInteraction records an engagement event for the stats view.
func (s *Silo) LogInteraction(actionType string, meta model.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logInteractionLocked(actionType, meta)
}

func (s *Silo) logInteractionLocked(actionType string, meta model.Metadata) {
	s.queue.LogInteraction(model.Interaction{
		ID:         uuid.NewString(),
		UserID:     s.userID,
		ActionType: actionType,
		Metadata:   meta,
		CreatedAt:  time.Now(),
	})
}

// saveProfileLocked queues a full-profile upsert; callers hold s.mu.
func (s *Silo) saveProfileLocked() {
	p := s.app.Profile
	p.UserID = s.userID
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	s.app.Profile = p
	s.queue.SaveProfile(p)
}
