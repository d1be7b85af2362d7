package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrInvalidLicense = errors.New("license key is not valid")

const lemonSqueezyAPI = "https://api.lemonsqueezy.com"

// LicenseService validates Lemon Squeezy license keys for users who bought
// outside the app (e.g. on the web) and need to unlock an existing account.
type LicenseService struct {
	verification *VerificationService
	httpClient   *http.Client
	baseURL      string
}

func NewLicenseService(verification *VerificationService) *LicenseService {
	return &LicenseService{
		verification: verification,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      lemonSqueezyAPI,
	}
}

type licenseValidateResponse struct {
	Valid      bool   `json:"valid"`
	Error      string `json:"error"`
	LicenseKey struct {
		Status string `json:"status"`
	} `json:"license_key"`
}

// Validate checks the key against Lemon Squeezy and, when valid, marks the
// user verified. Activation counts are not enforced here; the store handles
// seat limits.
func (s *LicenseService) Validate(ctx context.Context, userID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidLicense
	}

	form := url.Values{}
	form.Set("license_key", key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/licenses/validate", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build license request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("license validation request failed: %w", err)
	}
	defer resp.Body.Close()

	var body licenseValidateResponse
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return fmt.Errorf("failed to parse license response: %w", err)
	}

	if !body.Valid || body.LicenseKey.Status == "disabled" {
		slog.Info("license rejected", "user_id", userID, "status", body.LicenseKey.Status, "error", body.Error)
		return ErrInvalidLicense
	}

	return s.verification.MarkVerified(userID)
}
