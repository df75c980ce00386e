package catalog

import (
	"context"
	"sync"
	"time"

	"storefront-checkout/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items []domain.CatalogItem
	byID  map[string]domain.CatalogItem
}

// NewMemory builds a Repository over a fixed item set. It backs the demo mode
// when no database is configured.
func NewMemory(items []domain.CatalogItem) Repository {
	repo := &memoryRepo{
		items: make([]domain.CatalogItem, len(items)),
		byID:  make(map[string]domain.CatalogItem, len(items)),
	}
	copy(repo.items, items)
	for _, item := range repo.items {
		repo.byID[item.ID] = item
		if item.Key != "" {
			repo.byID[item.Key] = item
		}
	}
	return repo
}

// DemoItems mirrors the storefront's sample products.
func DemoItems() []domain.CatalogItem {
	now := time.Now().UTC()
	return []domain.CatalogItem{
		{ID: "1", Key: "product-1", Name: "Product 1", PriceCents: 1999, Currency: "usd", ImageURL: "/api/placeholder/100/100", CreatedAt: now},
		{ID: "2", Key: "product-2", Name: "Product 2", PriceCents: 2999, Currency: "usd", ImageURL: "/api/placeholder/100/100", CreatedAt: now},
		{ID: "3", Key: "product-3", Name: "Product 3", PriceCents: 3999, Currency: "usd", ImageURL: "/api/placeholder/100/100", CreatedAt: now},
	}
}

func (r *memoryRepo) List(_ context.Context) ([]domain.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CatalogItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := item
	return &out, nil
}
