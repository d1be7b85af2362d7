package handler

import (
	"net/http"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type statsHandler struct {
	store        *state.Store
	interactions repository.InteractionRepository
}

func NewStatsHandler(store *state.Store, interactions repository.InteractionRepository) *statsHandler {
	return &statsHandler{store: store, interactions: interactions}
}

// Get returns the gamification stats plus the recent activity days the
// heatmap renders.
func (h *statsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	silo := h.store.Acquire(r.Context(), sess)
	app := silo.State()

	var activityDays []time.Time
	interactions, err := h.interactions.Since(sess.UserID, time.Now().AddDate(0, 0, -30))
	if err == nil {
		activityDays = state.StreakDates(interactions)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"stats":         statsPayload(&app),
		"activity_days": activityDays,
	})
}
