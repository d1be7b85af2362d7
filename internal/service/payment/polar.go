package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	polargo "github.com/polarsource/polar-go"
	"github.com/polarsource/polar-go/models/components"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
)

type PolarProvider struct {
	cfg          *config.Config
	verification *service.VerificationService
	client       *polargo.Polar
}

func NewPolarProvider(cfg *config.Config, verification *service.VerificationService) *PolarProvider {
	var serverOption polargo.SDKOption
	if cfg.PolarSandboxMode {
		serverOption = polargo.WithServer(polargo.ServerSandbox)
		slog.Info("polar using sandbox mode", "app_env", cfg.AppEnv)
	} else {
		serverOption = polargo.WithServer(polargo.ServerProduction)
		slog.Info("polar using production mode", "app_env", cfg.AppEnv)
	}

	client := polargo.New(
		polargo.WithSecurity(cfg.PolarAPIKey),
		serverOption,
	)

	return &PolarProvider{
		cfg:          cfg,
		verification: verification,
		client:       client,
	}
}

func (p *PolarProvider) Name() string {
	return ProviderPolar
}

func (p *PolarProvider) CreateCheckoutURL(userID, customerEmail string) (string, error) {
	ctx := context.Background()

	if p.cfg.PolarProductID == "" {
		return "", fmt.Errorf("no POLAR_PRODUCT_ID configured")
	}

	successURL := fmt.Sprintf("%s/?checkout=success", p.cfg.AppURL)

	metadata := map[string]components.CheckoutCreateMetadata{
		"user_id": components.CreateCheckoutCreateMetadataStr(userID),
	}

	res, err := p.client.Checkouts.Create(ctx, components.CheckoutCreate{
		Products:      []string{p.cfg.PolarProductID},
		SuccessURL:    polargo.String(successURL),
		CustomerEmail: polargo.String(customerEmail),
		Metadata:      metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout: %w", err)
	}

	if res == nil || res.Checkout == nil {
		return "", fmt.Errorf("checkout response is nil")
	}

	slog.Info("polar checkout created", "user_id", userID, "checkout_id", res.Checkout.ID)
	return res.Checkout.URL, nil
}

func (p *PolarProvider) HandleWebhook(payload []byte, headers http.Header) error {
	if p.cfg.PolarWebhookSecret == "" {
		slog.Warn("polar no webhook secret configured, skipping signature verification")
	} else {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(p.cfg.PolarWebhookSecret))
		if err != nil {
			return fmt.Errorf("failed to create webhook verifier: %w", err)
		}

		httpHeaders := http.Header{}
		httpHeaders.Set("webhook-id", headers.Get("webhook-id"))
		httpHeaders.Set("webhook-timestamp", headers.Get("webhook-timestamp"))
		httpHeaders.Set("webhook-signature", headers.Get("webhook-signature"))

		err = wh.Verify(payload, httpHeaders)
		if err != nil {
			return fmt.Errorf("invalid webhook signature: %w", err)
		}
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	slog.Info("polar webhook received", "event_type", event.Type)

	switch event.Type {
	case "order.paid":
		return p.handleOrderPaid(event.Data)
	default:
		slog.Warn("polar webhook unknown event type", "event_type", event.Type)
		return nil
	}
}

func (p *PolarProvider) handleOrderPaid(data json.RawMessage) error {
	var order struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	}

	err := json.Unmarshal(data, &order)
	if err != nil {
		return fmt.Errorf("failed to parse order data: %w", err)
	}

	if userID := order.Metadata["user_id"]; userID != "" {
		return p.verification.MarkVerified(userID)
	}
	if order.Customer.Email == "" {
		slog.Warn("polar order has no user_id or email, skipping", "order_id", order.ID)
		return nil
	}
	return p.verification.MarkVerifiedByEmail(order.Customer.Email)
}
