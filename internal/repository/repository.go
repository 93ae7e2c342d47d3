package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves one catalogue page together with the total row count
	// for the query. Role-aware: USER queries see only active products
	// with at least one ACTIVE variant.
	List(ctx context.Context, q model.ProductQuery) ([]model.Product, int, error)

	// GetByID retrieves a product with all of its variants.
	// Returns (nil, nil) when the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a product and its variants in one transaction.
	Create(ctx context.Context, product *model.Product) error

	// UpdateTitle updates a product's title. Returns (nil, nil) when the
	// product does not exist.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*model.Product, error)

	// SoftDelete marks a product deleted and cascades all of its variants
	// to INACTIVE in one transaction. Returns (nil, nil) when the product
	// does not exist.
	SoftDelete(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// VariantRepository defines the interface for variant data access operations.
type VariantRepository interface {
	// GetByID retrieves a single variant. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Variant, error)

	// GetDetailsByIDs retrieves variants joined with their product titles.
	// Missing IDs are simply absent from the result.
	GetDetailsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.VariantDetail, error)

	// Add inserts new variants for an existing product.
	Add(ctx context.Context, variants []model.Variant) error

	// Update replaces a variant's editable fields. Returns (nil, nil) when
	// the variant does not exist.
	Update(ctx context.Context, v *model.Variant) (*model.Variant, error)

	// SetStatus flips a variant's availability status, leaving price,
	// stock, colour and size untouched. Returns (nil, nil) when absent.
	SetStatus(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) (*model.Variant, error)

	// ColourSizeExists reports whether the product already has a variant
	// with the given colour and size, excluding excludeID when non-nil.
	ColourSizeExists(ctx context.Context, productID uuid.UUID, colour, size string, excludeID *uuid.UUID) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// DecrementStock applies a guarded relative decrement within the
	// transaction. Returns false when the variant had insufficient stock
	// (no row matched), in which case nothing was changed.
	DecrementStock(ctx context.Context, tx pgx.Tx, variantID uuid.UUID, qty int) (bool, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves one page of orders plus the total count. A nil userID
	// lists all orders (admin view, customer fields populated); otherwise
	// only that user's orders are returned.
	List(ctx context.Context, q model.OrderQuery, userID *uuid.UUID) ([]model.Order, int, error)

	// UpdateStatus transitions an order's status. Returns (nil, nil) when absent.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// MarkPaidBySession marks all orders carrying the payment session id as
	// PAID, returning the number of rows updated.
	MarkPaidBySession(ctx context.Context, sessionID string) (int64, error)
}

// UserRepository defines the interface for user lookups.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// StatsRepository defines the interface for the order-stats rollup.
type StatsRepository interface {
	// Latest retrieves the newest rollup row, or (nil, nil) when none exists.
	Latest(ctx context.Context) (*model.OrderStats, error)

	// Refresh recomputes the rollup from the orders tables and appends a
	// new row, returning the fresh values.
	Refresh(ctx context.Context) (*model.OrderStats, error)
}
