package cart

import (
	"context"
	"sync"

	"storefront-checkout/internal/domain"
)

// MemoryStore keeps carts in process memory. It is the default store: cart
// state is owned by the interactive session and needs no durability.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]domain.Cart)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cart
	out.Lines = make([]domain.CartLine, len(cart.Lines))
	copy(out.Lines, cart.Lines)
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cart
	stored.Lines = make([]domain.CartLine, len(cart.Lines))
	copy(stored.Lines, cart.Lines)
	s.carts[cart.SessionID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
