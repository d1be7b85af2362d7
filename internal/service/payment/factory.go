package payment

import (
	"fmt"
	"log/slog"

	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
)

// NewProvider creates a payment provider based on configuration.
func NewProvider(cfg *config.Config, verification *service.VerificationService) (Provider, error) {
	provider := cfg.PaymentProvider

	slog.Info("initializing payment provider", "provider", provider)

	switch provider {
	case ProviderLemonSqueezy:
		if cfg.LemonSqueezyCheckoutURL == "" {
			return nil, fmt.Errorf("LEMON_SQUEEZY_CHECKOUT_URL is required when using Lemon Squeezy provider")
		}
		return NewLemonSqueezyProvider(cfg, verification), nil

	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required when using Stripe provider")
		}
		if cfg.StripeWebhookSecret == "" {
			return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required when using Stripe provider")
		}
		return NewStripeProvider(cfg, verification), nil

	case ProviderPolar:
		if cfg.PolarAPIKey == "" {
			return nil, fmt.Errorf("POLAR_API_KEY is required when using Polar provider")
		}
		return NewPolarProvider(cfg, verification), nil

	default:
		return nil, fmt.Errorf("unknown payment provider: %s (supported: lemonsqueezy, stripe, polar)", provider)
	}
}
