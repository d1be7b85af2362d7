package handler

import (
	"net/http"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type sparkHandler struct {
	store *state.Store
}

func NewSparkHandler(store *state.Store) *sparkHandler {
	return &sparkHandler{store: store}
}

// Today returns the rotating daily spark.
func (h *sparkHandler) Today(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	spark := service.SparkForDate(silo.State().Sparks, time.Now())
	if spark == nil {
		respondError(w, http.StatusNotFound, "no sparks available")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"daily_spark": spark})
}

// Complete records that today's action task was done.
func (h *sparkHandler) Complete(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	silo.LogInteraction("spark_completed", map[string]any{
		"date": time.Now().Format("2006-01-02"),
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
