package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-checkout/internal/catalog"
)

// Apply inserts the demo catalog for manual testing. It is idempotent via
// ON CONFLICT on the item key.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO catalog_items (key, name, description, price_cents, currency, image_url)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''))
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    image_url = EXCLUDED.image_url
`
	for _, item := range catalog.DemoItems() {
		if _, err := pool.Exec(ctx, q, item.Key, item.Name, item.Description, item.PriceCents, item.Currency, item.ImageURL); err != nil {
			return fmt.Errorf("upsert catalog item %s: %w", item.Key, err)
		}
	}
	return nil
}
