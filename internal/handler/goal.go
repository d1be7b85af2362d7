package handler

import (
	"net/http"
	"strings"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type goalHandler struct {
	store *state.Store
}

func NewGoalHandler(store *state.Store) *goalHandler {
	return &goalHandler{store: store}
}

func (h *goalHandler) List(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	respondJSON(w, http.StatusOK, map[string]any{
		"goals": silo.State().Goals,
	})
}

type goalRequest struct {
	GoalTitle  string          `json:"goal_title"`
	TargetDate string          `json:"target_date"`
	SubTasks   []model.SubTask `json:"sub_tasks"`
}

// Upsert replaces the goal's title, date and sub-tasks. Progress is derived
// server-side; the client never submits a percentage.
func (h *goalHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "goal id is required")
		return
	}

	var req goalRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.GoalTitle) == "" {
		respondError(w, http.StatusBadRequest, "goal title is required")
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	goal := silo.UpsertGoal(model.Goal{
		ID:         id,
		GoalTitle:  req.GoalTitle,
		TargetDate: req.TargetDate,
		SubTasks:   model.SubTasks(req.SubTasks),
	})

	respondJSON(w, http.StatusOK, map[string]any{"goal": goal})
}
