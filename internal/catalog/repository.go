package catalog

import (
	"context"

	"storefront-checkout/internal/domain"
)

// Repository provides read access to the immutable product catalog.
type Repository interface {
	List(ctx context.Context) ([]domain.CatalogItem, error)
	GetByID(ctx context.Context, id string) (*domain.CatalogItem, error)
}
