package model

import (
	"time"

	"github.com/google/uuid"
)

// GuestIdentity is the cart identity used when no user is authenticated.
const GuestIdentity = "guest"

// CartLine is one entry of a shopping cart. The display fields are
// denormalised snapshots; stock is soft-enforced here and re-validated at
// order time.
type CartLine struct {
	VariantID uuid.UUID `json:"variantId"`
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Img       string    `json:"img"`
	Price     float64   `json:"price"`
	Colour    string    `json:"colour"`
	Size      string    `json:"size"`
	Stock     int       `json:"stock"`
	Quantity  int       `json:"quantity"`
}

// Cart is the set of lines owned by one identity (user email or guest).
type Cart struct {
	Identity  string     `json:"identity"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
