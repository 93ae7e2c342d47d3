package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// DecrementStock applies a relative stock decrement guarded by stock >= qty.
// The relative form serialises concurrent orders under row-level locking;
// the guard keeps a racing order from driving stock negative.
func (r *orderRepository) DecrementStock(ctx context.Context, tx pgx.Tx, variantID uuid.UUID, qty int) (bool, error) {
	query := `
		UPDATE product_variants
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, variantID, qty, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("variant_id", variantID.String()).
			Int("qty", qty).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total, status, payment_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query, order.ID, order.UserID, order.Total, order.Status,
		order.PaymentSessionID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.VariantID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("variant_id", items[i].VariantID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := `
		SELECT id, user_id, total, status, payment_session_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.UserID, &order.Total, &order.Status,
		&order.PaymentSessionID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, variant_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Quantity, &item.Price)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, nil
}

// List retrieves one page of orders plus the total count.
func (r *orderRepository) List(ctx context.Context, q model.OrderQuery, userID *uuid.UUID) ([]model.Order, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	argN := 1

	if userID != nil {
		where += fmt.Sprintf(" AND o.user_id = $%d", argN)
		args = append(args, *userID)
		argN++
	}

	if q.Search != "" {
		if userID == nil {
			// Admins can search by order id or customer name.
			where += fmt.Sprintf(" AND (o.id::text ILIKE $%d OR u.fullname ILIKE $%d)", argN, argN)
		} else {
			where += fmt.Sprintf(" AND o.id::text ILIKE $%d", argN)
		}
		args = append(args, "%"+q.Search+"%")
		argN++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM orders o
		JOIN users u ON u.id = o.user_id
	` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.user_id, o.total, o.status, o.payment_session_id,
		       o.created_at, o.updated_at, u.fullname, u.email,
		       (SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id)
		FROM orders o
		JOIN users u ON u.id = o.user_id
		%s
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argN, argN+1)

	offset := (q.Page - 1) * q.Limit
	args = append(args, q.Limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.PaymentSessionID,
			&o.CreatedAt, &o.UpdatedAt, &o.CustomerName, &o.CustomerEmail, &o.ItemCount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		if userID != nil {
			// Customers already know who they are.
			o.CustomerName = ""
			o.CustomerEmail = ""
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus transitions an order's status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, user_id, total, status, payment_session_id, created_at, updated_at
	`

	var o model.Order
	err := r.pool.QueryRow(ctx, query, id, status, time.Now()).Scan(
		&o.ID, &o.UserID, &o.Total, &o.Status, &o.PaymentSessionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &o, nil
}

// MarkPaidBySession marks all orders carrying the payment session id as PAID.
func (r *orderRepository) MarkPaidBySession(ctx context.Context, sessionID string) (int64, error) {
	query := `
		UPDATE orders
		SET status = 'PAID', updated_at = $2
		WHERE payment_session_id = $1 AND status = 'PENDING'
	`

	tag, err := r.pool.Exec(ctx, query, sessionID, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to mark orders paid")
		return 0, fmt.Errorf("failed to mark orders paid: %w", err)
	}

	return tag.RowsAffected(), nil
}
