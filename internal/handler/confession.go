package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
	"github.com/Tecnolosic/rompeelciclo/internal/storage"
	"github.com/Tecnolosic/rompeelciclo/internal/validation"
)

// maxMediaUpload bounds multipart parsing memory for recordings.
const maxMediaUpload = 100 << 20

type confessionHandler struct {
	store *state.Store
	media storage.MediaStore
}

func NewConfessionHandler(store *state.Store, media storage.MediaStore) *confessionHandler {
	return &confessionHandler{store: store, media: media}
}

// List returns the journal newest-first. Media-backed entries get a fresh
// presigned URL per request.
func (h *confessionHandler) List(w http.ResponseWriter, r *http.Request) {
	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	confessions := silo.State().Confessions

	type entry struct {
		model.Confession
		MediaURL string `json:"media_url,omitempty"`
	}

	out := make([]entry, 0, len(confessions))
	for _, c := range confessions {
		e := entry{Confession: c}
		if c.MediaKey != nil && *c.MediaKey != "" && h.media != nil {
			url, err := h.media.PresignGet(r.Context(), *c.MediaKey)
			if err != nil {
				slog.Warn("failed to presign confession media", "error", err, "key", *c.MediaKey)
			} else {
				e.MediaURL = url
			}
		}
		out = append(out, e)
	}

	respondJSON(w, http.StatusOK, map[string]any{"confessions": out})
}

type confessionRequest struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	PilarID     int    `json:"pilar_id"`
	SessionName string `json:"session_name"`
	Note        string `json:"note"`
}

// Create records a text confession.
func (h *confessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req confessionRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	confessionType := req.Type
	if confessionType == "" {
		confessionType = model.ConfessionTypeText
	}
	if !model.ValidConfessionType(confessionType) {
		respondError(w, http.StatusBadRequest, "unknown confession type")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	silo := h.store.Acquire(r.Context(), ctxkeys.Session(r.Context()))
	confession := silo.AddConfession(model.Confession{
		Content:     req.Content,
		Type:        confessionType,
		PilarID:     req.PilarID,
		SessionName: optional(req.SessionName),
		Note:        optional(req.Note),
	})

	respondJSON(w, http.StatusCreated, map[string]any{"confession": confession})
}

// CreateMedia accepts a multipart voice or video recording, stores it and
// records the confession pointing at the stored object.
func (h *confessionHandler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		respondError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	err := r.ParseMultipartForm(maxMediaUpload)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	confessionType := r.FormValue("type")
	if confessionType != model.ConfessionTypeVoice && confessionType != model.ConfessionTypeVideo {
		respondError(w, http.StatusBadRequest, "media confessions must be voice or video")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		respondError(w, http.StatusBadRequest, "media file is required")
		return
	}
	defer file.Close()

	if confessionType == model.ConfessionTypeVoice {
		err = validation.ValidateFile(header, validation.VoiceConstraints)
	} else {
		err = validation.ValidateFile(header, validation.VideoConstraints)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := ctxkeys.Session(r.Context())
	key := fmt.Sprintf("confessions/%s/%s%s", sess.UserID, newID(), strings.ToLower(filepath.Ext(header.Filename)))
	contentType := header.Header.Get("Content-Type")

	err = h.media.Save(r.Context(), key, contentType, file)
	if err != nil {
		slog.Error("failed to store confession media", "error", err, "user_id", sess.UserID)
		respondError(w, http.StatusInternalServerError, "failed to store media")
		return
	}

	silo := h.store.Acquire(r.Context(), sess)
	confession := silo.AddConfession(model.Confession{
		Content:     r.FormValue("content"),
		Type:        confessionType,
		SessionName: optional(r.FormValue("session_name")),
		Note:        optional(r.FormValue("note")),
		MediaKey:    &key,
	})

	url, err := h.media.PresignGet(r.Context(), key)
	if err != nil {
		slog.Warn("failed to presign fresh media", "error", err, "key", key)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"confession": confession,
		"media_url":  url,
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
