package domain

import "time"

// CatalogItem is a purchasable product. The catalog is loaded once and is
// read-only to the rest of the system.
type CatalogItem struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Currency    string    `json:"currency"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
