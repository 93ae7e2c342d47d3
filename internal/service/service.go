package service

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines catalogue browsing and admin product management.
type ProductService interface {
	// List retrieves one role-aware catalogue page.
	List(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error)

	// Create creates a product with at least one variant, rejecting
	// duplicate colour+size combinations before any row is persisted.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// UpdateTitle updates a product's title.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*model.Product, error)

	// SoftDelete marks a product deleted and deactivates all its variants.
	SoftDelete(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// AddVariants adds variants to an existing product with the same
	// duplicate rules as Create.
	AddVariants(ctx context.Context, productID uuid.UUID, reqs []model.VariantRequest) ([]model.Variant, error)

	// UpdateVariant replaces a variant's editable fields.
	UpdateVariant(ctx context.Context, id uuid.UUID, req *model.VariantRequest) (*model.Variant, error)

	// DeactivateVariant sets a variant INACTIVE without deleting it.
	DeactivateVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error)

	// ReactivateVariant sets a variant back to ACTIVE.
	ReactivateVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error)

	// Import creates products from a bulk seed file, one product at a
	// time; failures are collected rather than aborting the batch.
	Import(ctx context.Context, seeds []catalog.ProductSeed) (*catalog.ImportSummary, error)
}

// OrderService defines order placement, listing and status management.
type OrderService interface {
	// PlaceOrder validates the cart, opens a payment checkout session and
	// commits stock decrement + order + items atomically.
	PlaceOrder(ctx context.Context, user *model.User, req *model.PlaceOrderRequest) (*model.PlaceOrderResponse, error)

	// List retrieves one page of orders. Admins see all orders with
	// customer details and the stats rollup; customers see their own.
	List(ctx context.Context, user *model.User, q model.OrderQuery) (*model.OrderPage, error)

	// GetByID retrieves an order with its items. Customers may only fetch
	// their own orders.
	GetByID(ctx context.Context, user *model.User, id uuid.UUID) (*model.Order, error)

	// UpdateStatus transitions an order's status (admin operation).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// MarkPaidBySession marks the orders of a completed checkout session
	// as PAID. Called from the payment webhook.
	MarkPaidBySession(ctx context.Context, sessionID string) error

	// Stats returns the latest precomputed order rollup. Zero values are
	// returned when no rollup has run yet.
	Stats(ctx context.Context) (*model.OrderStats, error)
}
