// Package cart keeps one persistent shopping cart per identity (user email
// or the guest sentinel). Carts survive sessions; switching identity never
// merges or deletes other identities' carts.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager applies cart operations against the backing store. Each request
// names its identity explicitly, so one Manager serves all identities.
type Manager struct {
	store  Store
	logger zerolog.Logger
}

// NewManager creates a cart manager on top of a store.
func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.With().Str("component", "cart").Logger(),
	}
}

// Get returns the cart for an identity, lazily creating an empty one.
func (m *Manager) Get(ctx context.Context, identity string) (*model.Cart, error) {
	cart, err := m.store.Get(ctx, identity)
	if errors.Is(err, ErrCacheMiss) {
		return &model.Cart{Identity: identity, Lines: []model.CartLine{}}, nil
	}
	if err != nil {
		m.logger.Error().Err(err).Str("identity", identity).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddLine merges a line into the identity's cart: quantities are summed
// when the variant is already present, otherwise the line is appended.
func (m *Manager) AddLine(ctx context.Context, identity string, line model.CartLine) (*model.Cart, error) {
	if line.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := m.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].VariantID == line.VariantID {
			cart.Lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, line)
	}

	return m.save(ctx, identity, cart)
}

// RemoveLine drops the variant's line from the cart. Removing an absent
// variant is a no-op.
func (m *Manager) RemoveLine(ctx context.Context, identity string, variantID uuid.UUID) (*model.Cart, error) {
	cart, err := m.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.VariantID != variantID {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept

	return m.save(ctx, identity, cart)
}

// UpdateQuantity sets a line's quantity, clamped to a minimum of 1. The
// upper bound against stock is the UI's responsibility; order placement
// re-validates regardless.
func (m *Manager) UpdateQuantity(ctx context.Context, identity string, variantID uuid.UUID, qty int) (*model.Cart, error) {
	cart, err := m.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	if qty < 1 {
		qty = 1
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].VariantID == variantID {
			cart.Lines[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return nil, &model.VariantNotFoundError{VariantID: variantID.String()}
	}

	return m.save(ctx, identity, cart)
}

// Clear empties the identity's cart. Other identities are untouched.
func (m *Manager) Clear(ctx context.Context, identity string) error {
	if err := m.store.Delete(ctx, identity); err != nil {
		m.logger.Error().Err(err).Str("identity", identity).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	m.logger.Debug().Str("identity", identity).Msg("cart cleared")
	return nil
}

func (m *Manager) save(ctx context.Context, identity string, cart *model.Cart) (*model.Cart, error) {
	cart.Identity = identity
	cart.UpdatedAt = time.Now()

	if err := m.store.Set(ctx, identity, cart); err != nil {
		m.logger.Error().Err(err).Str("identity", identity).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}
