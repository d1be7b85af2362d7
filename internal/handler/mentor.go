package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type mentorHandler struct {
	store         *state.Store
	mentorService *service.MentorService
}

func NewMentorHandler(store *state.Store, mentorService *service.MentorService) *mentorHandler {
	return &mentorHandler{store: store, mentorService: mentorService}
}

type mentorRequest struct {
	Messages []service.MentorMessage `json:"messages"`
}

// Chat streams the coach reply as plain text chunks. Upstream failures
// degrade to an in-band fallback line so the conversation never surfaces a
// transport error.
func (h *mentorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req mentorRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "messages are required")
		return
	}

	sess := ctxkeys.Session(r.Context())
	silo := h.store.Acquire(r.Context(), sess)
	app := silo.State()
	silo.LogInteraction("mentor_chat", nil)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	wrote := false
	emit := func(text string) {
		_, err := w.Write([]byte(text))
		if err != nil {
			return
		}
		wrote = true
		if flusher != nil {
			flusher.Flush()
		}
	}

	mctx := service.MentorContext{
		Profile:     app.Profile,
		Pilares:     app.Pilares,
		Goals:       app.Goals,
		Confessions: app.Confessions,
	}
	err = h.mentorService.Stream(r.Context(), mctx, req.Messages, emit)
	if err != nil {
		if errors.Is(err, service.ErrMentorNotConfigured) {
			slog.Warn("mentor chat requested but not configured", "user_id", sess.UserID)
		} else {
			slog.Error("mentor stream failed", "error", err, "user_id", sess.UserID)
		}
		if wrote {
			emit("\n\n" + service.MentorFallback)
		} else {
			emit(service.MentorFallback)
		}
	}
}
