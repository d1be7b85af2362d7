package handler

import (
	"net/http"
	"strconv"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type pilarHandler struct {
	store   *state.Store
	content *service.ContentService
}

func NewPilarHandler(store *state.Store, content *service.ContentService) *pilarHandler {
	return &pilarHandler{store: store, content: content}
}

func (h *pilarHandler) List(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	respondJSON(w, http.StatusOK, map[string]any{
		"pilares": silo.State().Pilares,
	})
}

// Complete marks the pilar done and returns the updated curriculum and
// stats. Re-completing is a no-op that still answers 200 with the current
// state.
func (h *pilarHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pilar id")
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	levelUp, changed := silo.CompletePilar(id)
	app := silo.State()

	payload := map[string]any{
		"pilares": app.Pilares,
		"stats":   statsPayload(&app),
		"changed": changed,
	}
	if levelUp != nil {
		payload["level_up"] = levelUp
	}
	respondJSON(w, http.StatusOK, payload)
}

// Reading serves the long-form lesson for the reading view.
func (h *pilarHandler) Reading(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pilar id")
		return
	}

	title, html, err := h.content.Lesson(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "no lesson available")
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	silo.LogInteraction("lesson_opened", map[string]any{"pilar_id": id})

	respondJSON(w, http.StatusOK, map[string]any{
		"pilar_id": id,
		"title":    title,
		"html":     string(html),
	})
}
