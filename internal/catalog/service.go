package catalog

import (
	"context"

	"storefront-checkout/internal/domain"
)

// Service exposes the catalog to the rest of the system.
type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.CatalogItem, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.CatalogItem, error) {
	return s.repo.GetByID(ctx, id)
}
