package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/device"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type authHandler struct {
	authService *service.AuthService
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	store       *state.Store
	device      *device.Identity
}

func NewAuthHandler(authService *service.AuthService, users repository.UserRepository, profiles repository.ProfileRepository, store *state.Store, dev *device.Identity) *authHandler {
	return &authHandler{
		authService: authService,
		users:       users,
		profiles:    profiles,
		store:       store,
		device:      dev,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.SignUp(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			respondError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "invalid email address")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.issueSession(w, r, user)
}

func (h *authHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		slog.Error("sign in failed", "error", err)
		respondError(w, http.StatusInternalServerError, "sign in failed")
		return
	}

	h.issueSession(w, r, user)
}

// Guest provisions an anonymous account tied to the device, so guest users
// flow through the same session and state machinery as registered ones.
func (h *authHandler) Guest(w http.ResponseWriter, r *http.Request) {
	deviceID, err := h.device.ID()
	if err != nil {
		slog.Error("failed to resolve device id", "error", err)
		respondError(w, http.StatusInternalServerError, "guest mode unavailable")
		return
	}

	email := fmt.Sprintf("guest-%s@guest.invalid", strings.ToLower(deviceID))
	user, err := h.users.ByEmail(email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("guest lookup failed", "error", err)
			respondError(w, http.StatusInternalServerError, "guest mode unavailable")
			return
		}
		user, err = h.createGuestUser(email, deviceID)
		if err != nil {
			slog.Error("guest creation failed", "error", err)
			respondError(w, http.StatusInternalServerError, "guest mode unavailable")
			return
		}
	}

	h.issueSession(w, r, user)
}

func (h *authHandler) createGuestUser(email, deviceID string) (*model.User, error) {
	now := time.Now()
	user := &model.User{
		ID:        newID(),
		Email:     email,
		CreatedAt: now,
	}
	err := h.users.Create(user)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:        newID(),
		UserID:    user.ID,
		Name:      model.GuestName,
		DeviceID:  &deviceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = h.profiles.Create(profile)
	if err != nil {
		return nil, err
	}

	slog.Info("guest account created", "user_id", user.ID, "device_id", deviceID)
	return user, nil
}

func (h *authHandler) issueSession(w http.ResponseWriter, r *http.Request, user *model.User) {
	token, expiry, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	h.authService.SetJWTCookie(w, token, expiry)

	claims, err := h.authService.VerifyJWT(token)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	sess, err := service.SessionFromClaims(claims)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	silo := h.store.Acquire(r.Context(), sess)
	silo.MarkAuthenticated()

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"expiry":  expiry.UTC(),
	})
}

// Logout clears the cookie and resets all local state to defaults.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess != nil {
		h.store.Logout(sess.UserID)
	}
	h.authService.ClearJWTCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Session reports the current session, if any.
func (h *authHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess == nil {
		respondJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user_id":       sess.UserID,
		"email":         sess.Email,
		"expiry":        sess.Expiry.UTC(),
	})
}
