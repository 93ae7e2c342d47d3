package cart

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/model"
)

// ErrCacheMiss is returned when no cart is stored for an identity.
var ErrCacheMiss = errors.New("cart: not found")

// Store persists one cart per identity. Implementations must keep carts of
// different identities fully independent.
type Store interface {
	// Get retrieves the cart for an identity. Returns ErrCacheMiss when
	// none is stored.
	Get(ctx context.Context, identity string) (*model.Cart, error)

	// Set stores the cart under its identity.
	Set(ctx context.Context, identity string, cart *model.Cart) error

	// Delete removes the cart for an identity.
	Delete(ctx context.Context, identity string) error
}

// memoryStore is a mutex-guarded in-process Store, used in tests and as a
// fallback when Redis is not configured.
type memoryStore struct {
	mu    sync.RWMutex
	carts map[string]model.Cart
}

// NewMemoryStore creates an in-process cart store.
func NewMemoryStore() Store {
	return &memoryStore{
		carts: make(map[string]model.Cart),
	}
}

func (s *memoryStore) Get(ctx context.Context, identity string) (*model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[identity]
	if !ok {
		return nil, ErrCacheMiss
	}

	// Copy the lines so callers cannot mutate stored state.
	out := cart
	out.Lines = append([]model.CartLine(nil), cart.Lines...)
	return &out, nil
}

func (s *memoryStore) Set(ctx context.Context, identity string, cart *model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *cart
	stored.Lines = append([]model.CartLine(nil), cart.Lines...)
	s.carts[identity] = stored
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, identity)
	return nil
}
