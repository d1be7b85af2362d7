package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
)

type licenseHandler struct {
	licenseService *service.LicenseService
}

func NewLicenseHandler(licenseService *service.LicenseService) *licenseHandler {
	return &licenseHandler{licenseService: licenseService}
}

type licenseRequest struct {
	Key string `json:"key"`
}

// Validate checks a purchased license key and unlocks the account.
func (h *licenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req licenseRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := ctxkeys.Session(r.Context())
	err = h.licenseService.Validate(r.Context(), sess.UserID, req.Key)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLicense) {
			respondError(w, http.StatusUnprocessableEntity, "license key is not valid")
			return
		}
		slog.Error("license validation failed", "error", err, "user_id", sess.UserID)
		respondError(w, http.StatusBadGateway, "license validation unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"verified": true})
}
