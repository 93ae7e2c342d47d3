package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ValidStatusTransition reports whether s is an allowed target status for
// an admin status update.
func ValidStatusTransition(s OrderStatus) bool {
	switch s {
	case OrderPaid, OrderFulfilled, OrderCancelled:
		return true
	}
	return false
}

// Order represents a customer order.
type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	UserID           uuid.UUID   `json:"userId" db:"user_id"`
	Total            float64     `json:"total" db:"total"`
	Status           OrderStatus `json:"status" db:"status"`
	PaymentSessionID string      `json:"-" db:"payment_session_id"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
	Items            []OrderItem `json:"items,omitempty"`

	// Populated for admin listings only.
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	ItemCount     int    `json:"itemCount,omitempty"`
}

// OrderItem is one line of an order. Price is copied from the variant at
// purchase time so history survives later price edits.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	VariantID uuid.UUID `json:"variantId" db:"variant_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// PlaceOrderRequest is the payload for committing a cart as an order.
// Total is advisory; the server recomputes it from the lines.
type PlaceOrderRequest struct {
	CartItems []CartLine `json:"cartItems"`
	Total     float64    `json:"total"`
}

// PlaceOrderResponse is returned after a successful order placement.
type PlaceOrderResponse struct {
	Message     string    `json:"message"`
	OrderID     uuid.UUID `json:"orderId"`
	CheckoutURL string    `json:"url,omitempty"`
}

// OrderQuery holds the parameters of a paginated order listing.
type OrderQuery struct {
	Page   int
	Limit  int
	Search string
}

// OrderPage is one page of order listings. Stats is populated for admins.
type OrderPage struct {
	Orders []Order     `json:"orders"`
	Total  int         `json:"total"`
	Page   int         `json:"page"`
	Limit  int         `json:"limit"`
	Stats  *OrderStats `json:"stats,omitempty"`
}

// OrderStats is the precomputed order rollup, refreshed out-of-band and
// read-only to the request path.
type OrderStats struct {
	TotalOrders int64      `json:"totalOrders" db:"total_orders"`
	TotalUnits  int64      `json:"totalUnits" db:"total_units"`
	TotalAmount float64    `json:"totalAmount" db:"total_amount"`
	LastUpdated *time.Time `json:"lastUpdated" db:"updated_at"`
}
