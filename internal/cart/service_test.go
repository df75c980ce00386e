package cart

import (
	"context"
	"errors"
	"testing"

	"storefront-checkout/internal/domain"
)

type stubCatalog struct {
	items map[string]domain.CatalogItem
}

func (s *stubCatalog) Get(_ context.Context, id string) (*domain.CatalogItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func newTestService() *Service {
	catalog := &stubCatalog{items: map[string]domain.CatalogItem{
		"1": {ID: "1", Name: "Product 1", PriceCents: 1999, Currency: "usd"},
		"2": {ID: "2", Name: "Product 2", PriceCents: 2999, Currency: "usd"},
	}}
	return New(NewMemoryStore(), catalog)
}

func TestGetReturnsEmptyCartForNewSession(t *testing.T) {
	svc := newTestService()
	cart, err := svc.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.IsEmpty() || cart.SessionID != "fresh" {
		t.Fatalf("expected empty cart for new session, got %+v", cart)
	}
}

func TestAddItemUnknownItem(t *testing.T) {
	svc := newTestService()
	_, err := svc.AddItem(context.Background(), "s1", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc := newTestService()
	_, err := svc.AddItem(context.Background(), "s1", "  ")
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemMergesAndPersists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "s1", "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", cart.Lines)
	}

	// The store holds the same state.
	stored, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.TotalCents() != 2*1999 {
		t.Fatalf("unexpected stored total %d", stored.TotalCents())
	}
}

func TestSetQuantityPolicy(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, "s1", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, "s1", "1", 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Lines[0].Quantity)
	}

	// Zero is ignored, not a removal.
	cart, err = svc.SetQuantity(ctx, "s1", "1", 0)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 5 {
		t.Fatalf("quantity 0 must leave the line unchanged, got %+v", cart.Lines)
	}
}

func TestRemoveItemNoopWhenAbsent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cart, err := svc.RemoveItem(ctx, "s1", "ghost")
	if err != nil {
		t.Fatalf("remove on empty cart must not error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart")
	}

	if _, err := svc.AddItem(ctx, "s1", "2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err = svc.RemoveItem(ctx, "s1", "2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected line removed, got %+v", cart.Lines)
	}
}

func TestClearDropsSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, "s1", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cart, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected cleared cart, got %+v", cart.Lines)
	}
}
