package cart

import (
	"context"

	"storefront-checkout/internal/domain"
)

// Store persists carts keyed by session id. Implementations must treat each
// session as single-writer; the Service serializes mutations above this layer.
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
