package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type stubUserRepo struct{ user *model.User }

func (s stubUserRepo) Create(*model.User) error { return nil }
func (s stubUserRepo) ByID(string) (*model.User, error) {
	if s.user == nil {
		return nil, repository.ErrUserNotFound
	}
	return s.user, nil
}
func (s stubUserRepo) ByEmail(string) (*model.User, error) {
	if s.user == nil {
		return nil, repository.ErrUserNotFound
	}
	return s.user, nil
}

type stubProfileRepo struct{ verified []string }

func (s *stubProfileRepo) ByUserID(string) (*model.Profile, error) {
	return nil, repository.ErrProfileNotFound
}
func (s *stubProfileRepo) Create(*model.Profile) error { return nil }
func (s *stubProfileRepo) Upsert(*model.Profile) error { return nil }
func (s *stubProfileRepo) MarkVerified(userID string) error {
	s.verified = append(s.verified, userID)
	return nil
}

func newTestProvider() (*LemonSqueezyProvider, *stubProfileRepo) {
	cfg := &config.Config{
		AppEnv:                    "test",
		LemonSqueezyWebhookSecret: "whsec",
		LemonSqueezyCheckoutURL:   "https://store.lemonsqueezy.com/checkout/buy/abc",
	}
	profiles := &stubProfileRepo{}
	verification := service.NewVerificationService(stubUserRepo{}, profiles, nil, state.NewStore(nil, nil))
	return NewLemonSqueezyProvider(cfg, verification), profiles
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCheckoutURLCarriesIdentity(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider()
	u, err := p.CreateCheckoutURL("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("CreateCheckoutURL: %v", err)
	}

	for _, want := range []string{"user_id%5D=u1", "email%5D=ana%40example.com"} {
		if !strings.Contains(u, want) {
			t.Errorf("url %q missing %q", u, want)
		}
	}
}

func TestWebhookOrderCreatedVerifiesUser(t *testing.T) {
	t.Parallel()

	p, profiles := newTestProvider()
	payload := []byte(`{"meta":{"event_name":"order_created","custom_data":{"user_id":"u1"}},"data":{"attributes":{"status":"paid"}}}`)
	headers := http.Header{"X-Signature": []string{sign("whsec", payload)}}

	if err := p.HandleWebhook(payload, headers); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(profiles.verified) != 1 || profiles.verified[0] != "u1" {
		t.Errorf("verified = %v, want [u1]", profiles.verified)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Parallel()

	p, profiles := newTestProvider()
	payload := []byte(`{"meta":{"event_name":"order_created","custom_data":{"user_id":"u1"}}}`)
	headers := http.Header{"X-Signature": []string{"deadbeef"}}

	if err := p.HandleWebhook(payload, headers); err == nil {
		t.Fatal("tampered payload must be rejected")
	}
	if len(profiles.verified) != 0 {
		t.Errorf("verified = %v, want none", profiles.verified)
	}
}

func TestWebhookSkipsRefundedOrders(t *testing.T) {
	t.Parallel()

	p, profiles := newTestProvider()
	payload := []byte(`{"meta":{"event_name":"order_created","custom_data":{"user_id":"u1"}},"data":{"attributes":{"status":"refunded"}}}`)
	headers := http.Header{"X-Signature": []string{sign("whsec", payload)}}

	if err := p.HandleWebhook(payload, headers); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(profiles.verified) != 0 {
		t.Errorf("refunded order verified the user: %v", profiles.verified)
	}
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	t.Parallel()

	p, profiles := newTestProvider()
	payload := []byte(`{"meta":{"event_name":"subscription_updated"}}`)
	headers := http.Header{"X-Signature": []string{sign("whsec", payload)}}

	if err := p.HandleWebhook(payload, headers); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(profiles.verified) != 0 {
		t.Errorf("verified = %v, want none", profiles.verified)
	}
}

func TestNewProviderSelection(t *testing.T) {
	t.Parallel()

	verification := service.NewVerificationService(stubUserRepo{}, &stubProfileRepo{}, nil, state.NewStore(nil, nil))

	cfg := &config.Config{PaymentProvider: "lemonsqueezy", LemonSqueezyWebhookSecret: "s", LemonSqueezyCheckoutURL: "https://x"}
	p, err := NewProvider(cfg, verification)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != ProviderLemonSqueezy {
		t.Errorf("Name = %q", p.Name())
	}

	if _, err := NewProvider(&config.Config{PaymentProvider: "carrier-pigeon"}, verification); err == nil {
		t.Error("unknown provider must error")
	}
}
