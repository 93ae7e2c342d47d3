// Package payment integrates with a Stripe-style hosted checkout provider:
// the server creates a checkout session, the customer pays on the provider's
// page, and the provider confirms completion through a signed webhook.
package payment

import (
	"context"

	"storefront/internal/model"
)

// CheckoutRequest carries what the provider needs to build a hosted
// checkout session for one order.
type CheckoutRequest struct {
	CustomerEmail string
	Lines         []model.CartLine
}

// CheckoutSession is the provider's hosted session. URL is where the
// customer completes payment; ID correlates the later webhook with the
// pending order.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client creates checkout sessions with the payment provider.
type Client interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// EventCheckoutCompleted is the webhook event type emitted when a customer
// finishes paying for a session.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is the decoded webhook payload.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentStatus string `json:"payment_status"`
		} `json:"object"`
	} `json:"data"`
}
