package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/service/payment"
)

type billingHandler struct {
	provider payment.Provider
}

func NewBillingHandler(provider payment.Provider) *billingHandler {
	return &billingHandler{provider: provider}
}

// Checkout returns the hosted checkout URL for the lifetime unlock.
func (h *billingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())

	url, err := h.provider.CreateCheckoutURL(sess.UserID, sess.Email)
	if err != nil {
		slog.Error("failed to create checkout", "error", err, "user_id", sess.UserID, "provider", h.provider.Name())
		respondError(w, http.StatusBadGateway, "checkout unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"checkout_url": url,
		"provider":     h.provider.Name(),
	})
}

// Webhook receives provider purchase events. The signature is verified by
// the provider implementation; failures answer 400 so the provider retries.
func (h *billingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	err = h.provider.HandleWebhook(payload, r.Header)
	if err != nil {
		slog.Error("webhook processing failed", "error", err, "provider", h.provider.Name())
		respondError(w, http.StatusBadRequest, "webhook rejected")
		return
	}

	w.WriteHeader(http.StatusOK)
}
