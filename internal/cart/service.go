package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront-checkout/internal/domain"
)

// Service applies cart mutations. Each session has a single logical writer
// (the interactive client); one lock serializes the read-modify-write against
// the store.
type Service struct {
	mu      sync.Mutex
	store   Store
	catalog catalogProvider
}

type catalogProvider interface {
	Get(ctx context.Context, id string) (*domain.CatalogItem, error)
}

func New(store Store, catalog catalogProvider) *Service {
	return &Service{store: store, catalog: catalog}
}

// Get returns the session's cart, or an empty cart when none exists yet.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem merges one unit of the catalog item into the cart. Adding the same
// item repeatedly only grows its quantity.
func (s *Service) AddItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, domain.Validation("itemId required")
	}
	item, err := s.catalog.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.AddLine(*item)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes the line unconditionally. A missing line is a no-op,
// not an error.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.RemoveLine(itemID)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity overwrites an existing line's quantity. Values below 1 are
// ignored; reducing to zero must go through RemoveItem.
func (s *Service) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.SetLineQuantity(itemID, quantity)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear drops the session's cart entirely.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, sessionID)
}
