package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBody bounds how much of a webhook payload is read.
const maxWebhookBody = 1 << 20

// WebhookHandler receives payment-provider webhooks. It authenticates with
// the signature header rather than the API key.
type WebhookHandler struct {
	orders service.OrderService
	secret string
	logger zerolog.Logger

	now func() time.Time
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(orders service.OrderService, secret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		orders: orders,
		secret: secret,
		logger: logger.With().Str("handler", "webhook").Logger(),
		now:    time.Now,
	}
}

// Receive handles POST /api/webhook. A completed, paid checkout session
// marks the matching pending order as PAID. Unknown event types are
// acknowledged and ignored so the provider does not retry them.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "failed to read payload", h.logger)
		return
	}

	signature := r.Header.Get("Webhook-Signature")
	if err := payment.VerifySignature(payload, signature, h.secret, payment.DefaultTolerance, h.now()); err != nil {
		h.logger.Warn().Err(err).Msg("webhook signature rejected")
		writeError(w, http.StatusBadRequest, model.ErrCodeUnauthorised, "invalid signature", h.logger)
		return
	}

	var event payment.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid event payload", h.logger)
		return
	}

	if event.Type == payment.EventCheckoutCompleted && event.Data.Object.PaymentStatus == "paid" {
		if err := h.orders.MarkPaidBySession(r.Context(), event.Data.Object.ID); err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		h.logger.Info().Str("session_id", event.Data.Object.ID).Msg("order marked paid")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
