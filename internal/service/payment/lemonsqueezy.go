package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
)

type LemonSqueezyProvider struct {
	cfg          *config.Config
	verification *service.VerificationService
}

func NewLemonSqueezyProvider(cfg *config.Config, verification *service.VerificationService) *LemonSqueezyProvider {
	slog.Info("lemon squeezy provider initialized", "app_env", cfg.AppEnv)
	return &LemonSqueezyProvider{
		cfg:          cfg,
		verification: verification,
	}
}

func (p *LemonSqueezyProvider) Name() string {
	return ProviderLemonSqueezy
}

// CreateCheckoutURL attaches the buyer's identity to the hosted checkout so
// the order webhook can be matched back to an account.
func (p *LemonSqueezyProvider) CreateCheckoutURL(userID, customerEmail string) (string, error) {
	u, err := url.Parse(p.cfg.LemonSqueezyCheckoutURL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout url: %w", err)
	}

	q := u.Query()
	q.Set("checkout[email]", customerEmail)
	q.Set("checkout[custom][user_id]", userID)
	u.RawQuery = q.Encode()

	slog.Info("lemon squeezy checkout created", "user_id", userID)
	return u.String(), nil
}

func (p *LemonSqueezyProvider) HandleWebhook(payload []byte, headers http.Header) error {
	if p.cfg.LemonSqueezyWebhookSecret == "" {
		return fmt.Errorf("LEMON_SQUEEZY_WEBHOOK_SECRET not configured")
	}

	// Lemon Squeezy signs the raw body with HMAC-SHA256, hex encoded.
	signature := headers.Get("X-Signature")
	mac := hmac.New(sha256.New, []byte(p.cfg.LemonSqueezyWebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("invalid webhook signature")
	}

	var event struct {
		Meta struct {
			EventName  string `json:"event_name"`
			CustomData struct {
				UserID string `json:"user_id"`
			} `json:"custom_data"`
		} `json:"meta"`
		Data struct {
			Attributes struct {
				UserEmail string `json:"user_email"`
				Status    string `json:"status"`
			} `json:"attributes"`
		} `json:"data"`
	}

	err := json.Unmarshal(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	slog.Info("lemon squeezy webhook received", "event_type", event.Meta.EventName)

	switch event.Meta.EventName {
	case "order_created":
		if event.Data.Attributes.Status == "refunded" {
			slog.Warn("lemon squeezy refunded order, skipping", "email", event.Data.Attributes.UserEmail)
			return nil
		}
		if userID := event.Meta.CustomData.UserID; userID != "" {
			return p.verification.MarkVerified(userID)
		}
		return p.verification.MarkVerifiedByEmail(event.Data.Attributes.UserEmail)
	default:
		slog.Warn("lemon squeezy webhook unknown event type", "event_type", event.Meta.EventName)
		return nil
	}
}
