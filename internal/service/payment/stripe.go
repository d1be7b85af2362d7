package payment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
)

type StripeProvider struct {
	cfg          *config.Config
	verification *service.VerificationService
}

func NewStripeProvider(cfg *config.Config, verification *service.VerificationService) *StripeProvider {
	stripe.Key = cfg.StripeSecretKey

	slog.Info("stripe provider initialized", "app_env", cfg.AppEnv)

	return &StripeProvider{
		cfg:          cfg,
		verification: verification,
	}
}

func (s *StripeProvider) Name() string {
	return ProviderStripe
}

func (s *StripeProvider) CreateCheckoutURL(userID, customerEmail string) (string, error) {
	if s.cfg.StripePriceID == "" {
		return "", fmt.Errorf("no STRIPE_PRICE_ID configured")
	}

	successURL := fmt.Sprintf("%s/?checkout=success", s.cfg.AppURL)
	cancelURL := fmt.Sprintf("%s/?checkout=cancelled", s.cfg.AppURL)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(customerEmail),
		Metadata: map[string]string{
			"user_id": userID,
		},
		AllowPromotionCodes: stripe.Bool(true),
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	slog.Info("stripe checkout created", "user_id", userID, "session_id", sess.ID)
	return sess.URL, nil
}

func (s *StripeProvider) HandleWebhook(payload []byte, headers http.Header) error {
	signature := headers.Get("Stripe-Signature")

	// Stripe API versions are backwards compatible; ignore the mismatch.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	slog.Info("stripe webhook received", "event_type", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutSessionCompleted(event.Data.Raw)
	default:
		slog.Warn("stripe webhook unknown event type", "event_type", event.Type)
		return nil
	}
}

func (s *StripeProvider) handleCheckoutSessionCompleted(data json.RawMessage) error {
	var checkoutSession struct {
		ID             string `json:"id"`
		PaymentStatus  string `json:"payment_status"`
		CustomerEmail  string `json:"customer_email"`
		CustomerDetail struct {
			Email string `json:"email"`
		} `json:"customer_details"`
		Metadata map[string]string `json:"metadata"`
	}

	err := json.Unmarshal(data, &checkoutSession)
	if err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	if checkoutSession.PaymentStatus != "paid" {
		slog.Warn("stripe checkout completed but not paid, skipping", "session_id", checkoutSession.ID, "status", checkoutSession.PaymentStatus)
		return nil
	}

	if userID := checkoutSession.Metadata["user_id"]; userID != "" {
		return s.verification.MarkVerified(userID)
	}

	email := checkoutSession.CustomerEmail
	if email == "" {
		email = checkoutSession.CustomerDetail.Email
	}
	if email == "" {
		slog.Warn("stripe checkout session has no user_id or email, skipping", "session_id", checkoutSession.ID)
		return nil
	}
	return s.verification.MarkVerifiedByEmail(email)
}
