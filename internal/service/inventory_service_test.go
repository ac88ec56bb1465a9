package service

import (
	"context"
	"errors"
	"testing"

	"go-store-orders/internal/model"
)

func TestRestock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Beef", "BF-01", "KG", "50")

	res, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("25.5"), Note: "supplier delivery"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CurrentStock.Equal(dec("75.5")) {
		t.Fatalf("want 75.5, got %s", res.CurrentStock)
	}

	var last model.InventoryLog
	f.db.Order("id DESC").First(&last)
	if !last.ChangeQty.Equal(dec("25.5")) || last.Note != "supplier delivery" {
		t.Fatalf("unexpected log %+v", last)
	}
}

func TestRestockCannotDriveStockNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Beef", "BF-01", "KG", "10")
	logsBefore := f.count(t, &model.InventoryLog{})

	_, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("-10.5")})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	if !f.stock(t, pid).Equal(dec("10")) {
		t.Fatalf("stock changed: %s", f.stock(t, pid))
	}
	if f.count(t, &model.InventoryLog{}) != logsBefore {
		t.Fatal("refused correction was logged")
	}

	res, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("-10")})
	if err != nil || !res.CurrentStock.IsZero() {
		t.Fatalf("exact correction: %+v %v", res, err)
	}
}

func TestRestockRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Beef", "BF-01", "KG", "10")

	if _, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero quantity: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: 404, Quantity: dec("1")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}
}
