package handler

import (
	"net/http"
	"strings"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
	"github.com/Tecnolosic/rompeelciclo/internal/validation"
)

type onboardingHandler struct {
	store *state.Store
}

func NewOnboardingHandler(store *state.Store) *onboardingHandler {
	return &onboardingHandler{store: store}
}

// Contract records acceptance of the commitment contract, the first
// onboarding step.
func (h *onboardingHandler) Contract(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	silo.AcceptContract()
	h.respondStep(w, silo)
}

type quizRequest struct {
	CurrentIdentity string `json:"current_identity"`
	NewIdentity     string `json:"new_identity"`
	BlockerReason   string `json:"blocker_reason"`
}

func (h *onboardingHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.CurrentIdentity) == "" || strings.TrimSpace(req.NewIdentity) == "" {
		respondError(w, http.StatusBadRequest, "both identities are required")
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	silo.SubmitQuiz(req.CurrentIdentity, req.NewIdentity, req.BlockerReason)
	h.respondStep(w, silo)
}

type profileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
	Profession  string `json:"profession"`
	NorthStar   string `json:"north_star"`
}

// Profile completes onboarding with the identity details.
func (h *onboardingHandler) Profile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	if !silo.State().Guest {
		err = validation.ValidateName(req.Name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	silo.CompleteProfile(req.Name, req.DateOfBirth, req.Profession, req.NorthStar)
	h.respondStep(w, silo)
}

func (h *onboardingHandler) respondStep(w http.ResponseWriter, silo *state.Silo) {
	respondJSON(w, http.StatusOK, map[string]any{
		"screen":      silo.Screen().String(),
		"resume_step": silo.ResumeStep().String(),
	})
}
