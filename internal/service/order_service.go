package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	statsRepo repository.StatsRepository
	validator *InventoryValidator
	payments  payment.Client
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. payments may be nil, in which
// case orders are placed without a checkout session.
func NewOrderService(
	orderRepo repository.OrderRepository,
	statsRepo repository.StatsRepository,
	validator *InventoryValidator,
	payments payment.Client,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		statsRepo: statsRepo,
		validator: validator,
		payments:  payments,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the cart, opens a payment checkout session and commits
// stock decrement + order creation + order items as one transaction. Stock
// decrements are relative and guarded, so a concurrent sale that drains a
// variant between validation and commit aborts the whole order.
func (s *orderService) PlaceOrder(ctx context.Context, user *model.User, req *model.PlaceOrderRequest) (*model.PlaceOrderResponse, error) {
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	if req == nil || len(req.CartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	if err := s.validator.Validate(ctx, req.CartItems); err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", user.ID.String()).
			Int("line_count", len(req.CartItems)).
			Msg("cart validation failed")
		return nil, err
	}

	total := orderTotal(req.CartItems)

	var sessionID, checkoutURL string
	if s.payments != nil {
		session, err := s.payments.CreateCheckoutSession(ctx, payment.CheckoutRequest{
			CustomerEmail: user.Email,
			Lines:         req.CartItems,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create checkout session")
			return nil, fmt.Errorf("failed to create checkout session: %w", err)
		}
		sessionID = session.ID
		checkoutURL = session.URL
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	for _, line := range req.CartItems {
		var ok bool
		ok, err = s.orderRepo.DecrementStock(ctx, tx, line.VariantID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if !ok {
			// Stock moved under us between validation and commit.
			err = &model.InsufficientStockError{
				Title:     line.Title,
				Colour:    line.Colour,
				Size:      line.Size,
				Requested: line.Quantity,
			}
			s.logger.Warn().
				Str("variant_id", line.VariantID.String()).
				Int("requested", line.Quantity).
				Msg("stock raced below requested quantity, aborting order")
			return nil, err
		}
	}

	now := time.Now()
	order := &model.Order{
		ID:               uuid.New(),
		UserID:           user.ID,
		Total:            total,
		Status:           model.OrderPending,
		PaymentSessionID: sessionID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	items := make([]model.OrderItem, len(req.CartItems))
	for i, line := range req.CartItems {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", user.ID.String()).
		Float64("total", total).
		Int("item_count", len(items)).
		Msg("order placed successfully")

	return &model.PlaceOrderResponse{
		Message:     "Order placed successfully",
		OrderID:     order.ID,
		CheckoutURL: checkoutURL,
	}, nil
}

// orderTotal recomputes the order total from the cart lines. The client's
// total field is advisory only.
func orderTotal(lines []model.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return math.Round(total*100) / 100
}

// List retrieves one page of orders.
func (s *orderService) List(ctx context.Context, user *model.User, q model.OrderQuery) (*model.OrderPage, error) {
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	var userID *uuid.UUID
	if !user.IsAdmin() {
		userID = &user.ID
	}

	orders, total, err := s.orderRepo.List(ctx, q, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	page := &model.OrderPage{
		Orders: orders,
		Total:  total,
		Page:   q.Page,
		Limit:  q.Limit,
	}

	if user.IsAdmin() {
		stats, err := s.Stats(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load order stats for listing")
			return nil, err
		}
		page.Stats = stats
	}

	return page, nil
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, user *model.User, id uuid.UUID) (*model.Order, error) {
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	// Customers may only see their own orders; hide existence of others.
	if !user.IsAdmin() && order.UserID != user.ID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", user.ID.String()).
			Msg("user attempted to read another user's order")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// UpdateStatus transitions an order's status.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidStatusTransition(status) {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return order, nil
}

// MarkPaidBySession marks the orders of a completed checkout session as PAID.
func (s *orderService) MarkPaidBySession(ctx context.Context, sessionID string) error {
	updated, err := s.orderRepo.MarkPaidBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to mark orders paid")
		return fmt.Errorf("failed to mark orders paid: %w", err)
	}

	if updated == 0 {
		s.logger.Warn().Str("session_id", sessionID).Msg("payment event matched no pending order")
	} else {
		s.logger.Info().
			Str("session_id", sessionID).
			Int64("orders", updated).
			Msg("orders marked paid")
	}

	return nil
}

// Stats returns the latest precomputed order rollup.
func (s *orderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	stats, err := s.statsRepo.Latest(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get order stats")
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}
	if stats == nil {
		// No rollup has run yet.
		return &model.OrderStats{}, nil
	}
	return stats, nil
}
