package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront-checkout/internal/domain"
)

func TestMemoryListAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(DemoItems())

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list))
	}
	if list[0].PriceCents != 1999 || list[1].PriceCents != 2999 || list[2].PriceCents != 3999 {
		t.Fatalf("unexpected prices %+v", list)
	}

	got, err := repo.GetByID(ctx, "2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Product 2" {
		t.Fatalf("unexpected item %+v", got)
	}
}

func TestMemoryGetByKey(t *testing.T) {
	repo := NewMemory(DemoItems())
	got, err := repo.GetByID(context.Background(), "product-3")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != "3" {
		t.Fatalf("expected item 3, got %+v", got)
	}
}

func TestMemoryGetUnknown(t *testing.T) {
	repo := NewMemory(DemoItems())
	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryListReturnsCopies(t *testing.T) {
	repo := NewMemory(DemoItems())
	ctx := context.Background()

	first, _ := repo.List(ctx)
	first[0].Name = "mutated"

	second, _ := repo.List(ctx)
	if second[0].Name == "mutated" {
		t.Fatalf("List exposed internal state")
	}
}
