// Package gateway wraps the relational backend behind two operations: one
// aggregate "load everything for this user" fetch and per-entity
// fire-and-forget saves. Local state, not the backend, is the source of truth
// for the active session, so saves are best-effort by design.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
)

// interactionWindow bounds the interaction fetch for the stats graph.
const interactionWindow = 7 * 24 * time.Hour

// sparkLimit bounds the daily spark fetch.
const sparkLimit = 30

// Snapshot is the aggregate load result. A missing entity (nil profile,
// empty slices) means "no data yet", never an error.
type Snapshot struct {
	Profile      *model.Profile
	Goals        []model.Goal
	Confessions  []model.Confession
	Progress     []model.PilarProgress
	Definitions  []model.PilarDefinition
	Sparks       []model.DailySpark
	Interactions []model.Interaction
}

type Gateway struct {
	profiles     repository.ProfileRepository
	goals        repository.GoalRepository
	confessions  repository.ConfessionRepository
	pilares      repository.PilarRepository
	progress     repository.ProgressRepository
	sparks       repository.SparkRepository
	interactions repository.InteractionRepository
}

func New(
	profiles repository.ProfileRepository,
	goals repository.GoalRepository,
	confessions repository.ConfessionRepository,
	pilares repository.PilarRepository,
	progress repository.ProgressRepository,
	sparks repository.SparkRepository,
	interactions repository.InteractionRepository,
) *Gateway {
	return &Gateway{
		profiles:     profiles,
		goals:        goals,
		confessions:  confessions,
		pilares:      pilares,
		progress:     progress,
		sparks:       sparks,
		interactions: interactions,
	}
}

// Load fetches every entity for the user concurrently and joins the results.
// The per-entity fetches are independent; a failed fetch degrades that entity
// to its zero value and is logged, so callers always receive a usable
// snapshot (availability over consistency).
func (g *Gateway) Load(ctx context.Context, userID string) *Snapshot {
	snap := &Snapshot{}
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		profile, err := g.profiles.ByUserID(userID)
		if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
			slog.Warn("load profile failed, using defaults", "error", err, "user_id", userID)
			return nil
		}
		snap.Profile = profile
		return nil
	})

	eg.Go(func() error {
		goals, err := g.goals.ByUser(userID)
		if err != nil {
			slog.Warn("load goals failed, using defaults", "error", err, "user_id", userID)
			return nil
		}
		snap.Goals = goals
		return nil
	})

	eg.Go(func() error {
		confessions, err := g.confessions.ByUser(userID)
		if err != nil {
			slog.Warn("load confessions failed", "error", err, "user_id", userID)
			return nil
		}
		snap.Confessions = confessions
		return nil
	})

	eg.Go(func() error {
		progress, err := g.progress.ByUser(userID)
		if err != nil {
			slog.Warn("load pillar progress failed", "error", err, "user_id", userID)
			return nil
		}
		snap.Progress = progress
		return nil
	})

	eg.Go(func() error {
		defs, err := g.pilares.Definitions()
		if err != nil {
			slog.Warn("load pillar definitions failed, using static set", "error", err)
			return nil
		}
		snap.Definitions = defs
		return nil
	})

	eg.Go(func() error {
		sparks, err := g.sparks.Recent(sparkLimit)
		if err != nil {
			slog.Warn("load daily sparks failed", "error", err)
			return nil
		}
		snap.Sparks = sparks
		return nil
	})

	eg.Go(func() error {
		since := time.Now().Add(-interactionWindow)
		interactions, err := g.interactions.Since(userID, since)
		if err != nil {
			slog.Warn("load interactions failed", "error", err, "user_id", userID)
			return nil
		}
		snap.Interactions = interactions
		return nil
	})

	// Fetch goroutines never return errors; Wait only joins them.
	_ = eg.Wait()
	return snap
}
