package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

func newTestLicenseService(t *testing.T, response string) (*LicenseService, *fakeProfileRepo) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/licenses/validate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.FormValue("license_key"); got == "" {
			t.Error("license_key form field missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	profiles := newFakeProfileRepo()
	verification := NewVerificationService(newFakeUserRepo(), profiles, nil, state.NewStore(nil, nil))
	svc := NewLicenseService(verification)
	svc.baseURL = server.URL
	return svc, profiles
}

func TestLicenseValidateMarksVerified(t *testing.T) {
	t.Parallel()

	svc, profiles := newTestLicenseService(t, `{"valid":true,"license_key":{"status":"active"}}`)

	err := svc.Validate(context.Background(), "u1", "ABCD-1234")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(profiles.verified) != 1 || profiles.verified[0] != "u1" {
		t.Errorf("verified = %v, want [u1]", profiles.verified)
	}
}

func TestLicenseValidateRejectsInvalidKey(t *testing.T) {
	t.Parallel()

	svc, profiles := newTestLicenseService(t, `{"valid":false,"error":"license_key not found"}`)

	err := svc.Validate(context.Background(), "u1", "WRONG-KEY")
	if !errors.Is(err, ErrInvalidLicense) {
		t.Errorf("err = %v, want ErrInvalidLicense", err)
	}
	if len(profiles.verified) != 0 {
		t.Errorf("verified = %v, want none", profiles.verified)
	}
}

func TestLicenseValidateRejectsDisabledKey(t *testing.T) {
	t.Parallel()

	svc, _ := newTestLicenseService(t, `{"valid":true,"license_key":{"status":"disabled"}}`)

	err := svc.Validate(context.Background(), "u1", "DISABLED-KEY")
	if !errors.Is(err, ErrInvalidLicense) {
		t.Errorf("err = %v, want ErrInvalidLicense", err)
	}
}

func TestLicenseValidateRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	svc, _ := newTestLicenseService(t, `{}`)

	err := svc.Validate(context.Background(), "u1", "   ")
	if !errors.Is(err, ErrInvalidLicense) {
		t.Errorf("err = %v, want ErrInvalidLicense", err)
	}
}
