package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-checkout/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres builds a Repository backed by the catalog_items table.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.CatalogItem, error) {
	const q = `
SELECT id::text, key, name, COALESCE(description, ''), price_cents, currency, COALESCE(image_url, ''), created_at
FROM catalog_items
ORDER BY created_at, key
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.Key, &item.Name, &item.Description, &item.PriceCents, &item.Currency, &item.ImageURL, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("catalog repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	const q = `
SELECT id::text, key, name, COALESCE(description, ''), price_cents, currency, COALESCE(image_url, ''), created_at
FROM catalog_items
WHERE id::text = $1 OR key = $1
`
	var item domain.CatalogItem
	err := r.pool.QueryRow(ctx, q, id).Scan(&item.ID, &item.Key, &item.Name, &item.Description, &item.PriceCents, &item.Currency, &item.ImageURL, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &item, nil
}
