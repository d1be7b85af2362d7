package handler

import (
	"net/http"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type profileHandler struct {
	store *state.Store
}

func NewProfileHandler(store *state.Store) *profileHandler {
	return &profileHandler{store: store}
}

func (h *profileHandler) Get(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	app := silo.State()
	respondJSON(w, http.StatusOK, map[string]any{
		"profile": app.Profile,
		"stats":   statsPayload(&app),
	})
}

type identityUpdateRequest struct {
	NorthStar   string `json:"north_star"`
	NewIdentity string `json:"new_identity"`
}

// Update applies a settings-surface edit to the identity fields.
func (h *profileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req identityUpdateRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	silo.UpdateIdentity(req.NorthStar, req.NewIdentity)
	respondJSON(w, http.StatusOK, map[string]any{
		"profile": silo.State().Profile,
	})
}
