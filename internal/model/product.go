package model

import (
	"time"

	"github.com/google/uuid"
)

// DeleteStatus marks a product as live or soft-deleted.
type DeleteStatus string

const (
	ProductActive  DeleteStatus = "active"
	ProductDeleted DeleteStatus = "deleted"
)

// AvailabilityStatus marks whether a variant can be sold.
type AvailabilityStatus string

const (
	VariantActive   AvailabilityStatus = "ACTIVE"
	VariantInactive AvailabilityStatus = "INACTIVE"
)

// Product represents a catalogue product. Variants carry the actual price
// and stock; the product itself is just the title and the lifecycle flag.
type Product struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Title     string       `json:"title" db:"title"`
	IsDeleted DeleteStatus `json:"isDeleted" db:"is_deleted"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
	Variants  []Variant    `json:"variants"`
}

// Variant is a colour/size instance of a product, the actual unit of
// inventory and price. The (product, colour, size) combination is unique.
// Variants are never hard-deleted, only deactivated.
type Variant struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	ProductID          uuid.UUID          `json:"productId" db:"product_id"`
	Colour             string             `json:"colour" db:"colour"`
	ColourCode         string             `json:"colourcode" db:"colour_code"`
	Size               string             `json:"size" db:"size"`
	Price              float64            `json:"price" db:"price"`
	Stock              int                `json:"stock" db:"stock"`
	Img                string             `json:"img" db:"img"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus" db:"availability_status"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
}

// VariantDetail is a variant joined with its product's title, used for
// stock validation messages.
type VariantDetail struct {
	Variant
	ProductTitle string `json:"productTitle" db:"product_title"`
}

// VariantRequest is the payload for creating or updating a variant.
type VariantRequest struct {
	Colour     string  `json:"colour"`
	ColourCode string  `json:"colourcode"`
	Size       string  `json:"size"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	Img        string  `json:"img"`
}

// ProductRequest is the payload for creating a product with its variants.
type ProductRequest struct {
	Title    string           `json:"title"`
	Variants []VariantRequest `json:"variants"`
}

// Catalogue sort options. Anything else falls back to newest first.
const (
	SortTitleAsc  = "title-asc"
	SortTitleDesc = "title-desc"
	SortDateAsc   = "date-asc"
	SortDateDesc  = "date-desc"
)

// ProductQuery holds the parameters of a paginated catalogue query.
type ProductQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string
	Role   Role
}

// ProductPage is one page of catalogue results. HasMore is authoritative
// for forward pagination only.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}
