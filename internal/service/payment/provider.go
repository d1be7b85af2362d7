// Package payment abstracts the checkout providers behind one interface. The
// product is a single lifetime unlock: every provider's job is to produce a
// checkout URL and, on a verified purchase webhook, flip the buyer's
// verification flag.
package payment

import "net/http"

const (
	ProviderLemonSqueezy = "lemonsqueezy"
	ProviderStripe       = "stripe"
	ProviderPolar        = "polar"
)

type Provider interface {
	// CreateCheckoutURL returns the hosted checkout URL for the user.
	CreateCheckoutURL(userID, customerEmail string) (string, error)

	// HandleWebhook verifies and processes a provider webhook delivery.
	HandleWebhook(payload []byte, headers http.Header) error

	// Name returns the provider name (e.g. "lemonsqueezy", "stripe").
	Name() string
}
