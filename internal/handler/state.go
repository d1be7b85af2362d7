package handler

import (
	"net/http"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/gating"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type stateHandler struct {
	store *state.Store
}

func NewStateHandler(store *state.Store) *stateHandler {
	return &stateHandler{store: store}
}

// Bootstrap returns everything the client needs to render its first frame:
// the resolved screen, the onboarding resume step, and the full working set.
// Anonymous requests get a landing-flow answer driven by the pre-session
// choice flags the client echoes back as query parameters.
func (h *stateHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess == nil {
		flags := gating.Flags{
			SessionResolved: true,
			ChoseStart:      r.URL.Query().Get("chose_start") == "true",
			ChoseAuth:       r.URL.Query().Get("chose_auth") == "true",
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"screen":        gating.Resolve(flags).String(),
			"authenticated": false,
		})
		return
	}

	silo := h.store.Acquire(r.Context(), sess)
	app := silo.State()

	spark := service.SparkForDate(app.Sparks, time.Now())

	respondJSON(w, http.StatusOK, map[string]any{
		"screen":        silo.Screen().String(),
		"resume_step":   silo.ResumeStep().String(),
		"authenticated": true,
		"profile":       app.Profile,
		"stats":         statsPayload(&app),
		"pilares":       app.Pilares,
		"goals":         app.Goals,
		"confessions":   app.Confessions,
		"daily_spark":   spark,
		"onboarded":     app.Onboarded,
		"verified":      app.Verified,
		"guest":         app.Guest,
		"bunker":        app.Bunker,
	})
}

type bunkerRequest struct {
	Enabled bool `json:"enabled"`
}

// Bunker toggles the focus-lock overlay.
func (h *stateHandler) Bunker(w http.ResponseWriter, r *http.Request) {
	var req bunkerRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	silo.SetBunker(req.Enabled)
	respondJSON(w, http.StatusOK, map[string]any{
		"screen": silo.Screen().String(),
		"bunker": req.Enabled,
	})
}

func statsPayload(app *state.AppState) map[string]any {
	return map[string]any{
		"current_streak":   app.Profile.CurrentStreak,
		"best_streak":      app.Profile.BestStreak,
		"last_active_date": app.Profile.LastActiveDate,
		"total_milestones": app.Profile.TotalMilestones,
		"xp":               app.Profile.XP,
		"level":            app.Level(),
	}
}
