package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go-store-orders/internal/model"
)

func TestCreateProductWritesAuditTrail(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Chicken Breast", "CB-01", "KG", "100", unit("Box", "20"), unit("Half Box", "10"))
	if len(units) != 2 {
		t.Fatalf("want 2 units, got %d", len(units))
	}

	var logs []model.ProductConfigLog
	f.db.Order("id").Find(&logs)
	var actions []string
	for _, l := range logs {
		actions = append(actions, l.ActionType)
		if l.ProductName != "Chicken Breast" {
			t.Fatalf("unexpected snapshot name %q", l.ProductName)
		}
	}
	want := []string{model.ActionCreateProduct, model.ActionCreateUnit, model.ActionCreateUnit}
	if !reflect.DeepEqual(actions, want) {
		t.Fatalf("want %v, got %v", want, actions)
	}

	var stockLogs []model.InventoryLog
	f.db.Where("product_id = ?", pid).Find(&stockLogs)
	if len(stockLogs) != 1 || !stockLogs[0].ChangeQty.Equal(dec("100")) {
		t.Fatalf("want one opening balance row, got %+v", stockLogs)
	}

	if got := f.pub.types(); !reflect.DeepEqual(got, append(want, EventRestock)) {
		t.Fatalf("unexpected published events %v", got)
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createProduct(t, "Beef", "BF-01", "KG", "0")

	cases := []struct {
		name string
		req  *CreateProductRequest
		want error
	}{
		{"duplicate sku", &CreateProductRequest{Name: "Beef 2", SKU: "BF-01", BaseUnit: "KG"}, ErrConflict},
		{"blank name", &CreateProductRequest{Name: " ", SKU: "X-1", BaseUnit: "KG"}, ErrInvalidInput},
		{"negative stock", &CreateProductRequest{Name: "X", SKU: "X-1", BaseUnit: "KG", InitialStock: dec("-1")}, ErrInvalidInput},
		{"zero rate", &CreateProductRequest{Name: "X", SKU: "X-1", BaseUnit: "KG", Units: []UnitInput{unit("Box", "0")}}, ErrInvalidInput},
		{"repeated unit", &CreateProductRequest{Name: "X", SKU: "X-1", BaseUnit: "KG", Units: []UnitInput{unit("Box", "1"), unit("box", "2")}}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.catalog.CreateProduct(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
	if n := f.count(t, &model.Product{}); n != 1 {
		t.Fatalf("rejected products were stored: %d rows", n)
	}
	if n := f.count(t, &model.InventoryLog{}); n != 0 {
		t.Fatalf("zero initial stock should not log, got %d rows", n)
	}
}

func TestToggleProductTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Beef", "BF-01", "KG", "5", unit("Box", "1"))

	first, err := f.catalog.ToggleProduct(ctx, pid)
	if err != nil || *first.IsActive {
		t.Fatalf("first toggle: %+v %v", first, err)
	}
	second, err := f.catalog.ToggleProduct(ctx, pid)
	if err != nil || !*second.IsActive {
		t.Fatalf("second toggle: %+v %v", second, err)
	}

	var n int64
	f.db.Model(&model.ProductConfigLog{}).Where("action_type = ?", model.ActionToggleProduct).Count(&n)
	if n != 2 {
		t.Fatalf("want 2 toggle logs, got %d", n)
	}

	if _, err := f.catalog.ToggleProduct(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreateUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Beef", "BF-01", "KG", "5")

	res, err := f.catalog.CreateUnit(ctx, &CreateUnitRequest{ProductID: pid, UnitInput: unit("Box", "12.5")})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == 0 {
		t.Fatal("expected unit id")
	}

	if _, err := f.catalog.CreateUnit(ctx, &CreateUnitRequest{ProductID: pid, UnitInput: unit("Box", "3")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate unit: want ErrConflict, got %v", err)
	}
	if _, err := f.catalog.CreateUnit(ctx, &CreateUnitRequest{ProductID: 999, UnitInput: unit("Box", "3")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}
	if _, err := f.catalog.CreateUnit(ctx, &CreateUnitRequest{ProductID: pid, UnitInput: unit("Crate", "-1")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative rate: want ErrInvalidInput, got %v", err)
	}

	units, err := f.catalog.ListUnits(ctx, pid)
	if err != nil || len(units) != 1 || !units[0].ConversionRate.Equal(dec("12.5")) {
		t.Fatalf("unexpected units %+v %v", units, err)
	}
	if _, err := f.catalog.ListUnits(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteReferencedUnitFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, units := f.createProduct(t, "Beef", "BF-01", "KG", "100", unit("Box", "20"), unit("Bag", "5"))

	if _, err := f.orders.PlaceOrder(ctx, order("Shop A", pid, units[0], 1)); err != nil {
		t.Fatal(err)
	}
	before := len(f.pub.types())

	if _, err := f.catalog.DeleteUnit(ctx, units[0]); !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	var u model.ProductUnit
	if err := f.db.First(&u, units[0]).Error; err != nil {
		t.Fatalf("referenced unit was removed: %v", err)
	}
	if len(f.pub.types()) != before {
		t.Fatal("failed delete must not publish")
	}

	if _, err := f.catalog.DeleteUnit(ctx, units[1]); err != nil {
		t.Fatalf("unreferenced unit: %v", err)
	}
	var n int64
	f.db.Model(&model.ProductConfigLog{}).Where("action_type = ?", model.ActionDeleteUnit).Count(&n)
	if n != 1 {
		t.Fatalf("want one DELETE_UNIT log, got %d", n)
	}

	if _, err := f.catalog.DeleteUnit(ctx, units[1]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}
