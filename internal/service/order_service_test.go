package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"go-store-orders/internal/model"

	"gorm.io/gorm"
)

func TestPlaceOrderChickenBreast(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Chicken Breast", "CB-01", "KG", "100", unit("Box", "20"))

	res, err := f.orders.PlaceOrder(context.Background(), order("Shop A", pid, units[0], 3))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if !res.RemainingStock.Equal(dec("40")) {
		t.Fatalf("want remaining 40, got %s", res.RemainingStock)
	}
	if !res.DeductedQty.Equal(dec("60")) {
		t.Fatalf("want deducted 60, got %s", res.DeductedQty)
	}
	if !regexp.MustCompile(`^ORD-\d{14}$`).MatchString(res.OrderNumber) {
		t.Fatalf("bad order number %q", res.OrderNumber)
	}
	if !f.stock(t, pid).Equal(dec("40")) {
		t.Fatalf("persisted stock is %s", f.stock(t, pid))
	}

	var item model.OrderItem
	if err := f.db.First(&item).Error; err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 3 || !item.CalculatedQty.Equal(dec("60")) {
		t.Fatalf("unexpected item %+v", item)
	}

	var o model.Order
	if err := f.db.First(&o, item.OrderID).Error; err != nil {
		t.Fatal(err)
	}
	if o.Status != model.OrderStatusApproved || o.StoreName != "Shop A" {
		t.Fatalf("unexpected order %+v", o)
	}
}

func TestCalculatedQtyIsExact(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Prawns", "PR-01", "KG", "10", unit("Bag", "0.25"), unit("Tray", "1.25"))

	for _, tc := range []struct {
		unitID uint
		qty    int
		want   string
	}{
		{units[0], 3, "0.75"},
		{units[1], 3, "3.75"},
	} {
		if _, err := f.orders.PlaceOrder(context.Background(), order("Shop A", pid, tc.unitID, tc.qty)); err != nil {
			t.Fatal(err)
		}
		var item model.OrderItem
		if err := f.db.Order("id DESC").First(&item).Error; err != nil {
			t.Fatal(err)
		}
		if !item.CalculatedQty.Equal(dec(tc.want)) {
			t.Fatalf("want %s, got %s", tc.want, item.CalculatedQty)
		}
	}
	if got := f.stock(t, pid); !got.Equal(dec("5.5")) {
		t.Fatalf("want 5.5 left, got %s", got)
	}
}

func TestFractionalRatesDrainStockExactly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, units := f.createProduct(t, "Saffron", "SF-01", "G", "0.3", unit("Tenth", "0.1"), unit("Fifth", "0.2"))

	res, err := f.orders.PlaceOrder(ctx, order("Shop A", pid, units[0], 1))
	if err != nil {
		t.Fatal(err)
	}
	if !res.RemainingStock.Equal(dec("0.2")) {
		t.Fatalf("want 0.2 left, got %s", res.RemainingStock)
	}

	res, err = f.orders.PlaceOrder(ctx, order("Shop A", pid, units[1], 1))
	if err != nil {
		t.Fatalf("ordering the exact remainder: %v", err)
	}
	if !res.RemainingStock.IsZero() {
		t.Fatalf("want 0 left, got %s", res.RemainingStock)
	}

	if _, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("0.7"), Note: "delivery"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.PlaceOrder(ctx, order("Shop B", pid, units[0], 7)); err != nil {
		t.Fatalf("ordering 7 x 0.1 of 0.7: %v", err)
	}
	if got := f.stock(t, pid); !got.IsZero() {
		t.Fatalf("want 0, got %s", got)
	}

	var logs []model.InventoryLog
	var items []model.OrderItem
	f.db.Where("product_id = ?", pid).Find(&logs)
	f.db.Where("product_id = ?", pid).Find(&items)
	balance := dec("0")
	for _, l := range logs {
		balance = balance.Add(l.ChangeQty)
	}
	for _, it := range items {
		balance = balance.Sub(it.CalculatedQty)
	}
	if !balance.IsZero() {
		t.Fatalf("logs minus orders = %s, want 0", balance)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Beef", "BF-01", "KG", "50", unit("Box", "20"))

	_, err := f.orders.PlaceOrder(context.Background(), order("Shop A", pid, units[0], 5))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	var ise *InsufficientStockError
	if !errors.As(err, &ise) || !ise.Current.Equal(dec("50")) || !ise.Requested.Equal(dec("100")) {
		t.Fatalf("unexpected error detail %#v", err)
	}
	if !f.stock(t, pid).Equal(dec("50")) {
		t.Fatalf("stock changed to %s", f.stock(t, pid))
	}
	if n := f.count(t, &model.Order{}); n != 0 {
		t.Fatalf("want no orders, got %d", n)
	}
}

func TestPlaceOrderRollsBackOnLateFailure(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Pork", "PK-01", "KG", "100", unit("Box", "20"))

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			tx.AddError(errors.New("injected failure"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.orders.PlaceOrder(context.Background(), order("Shop A", pid, units[0], 2))
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}
	if !f.stock(t, pid).Equal(dec("100")) {
		t.Fatalf("stock not rolled back: %s", f.stock(t, pid))
	}
	if n := f.count(t, &model.Order{}); n != 0 {
		t.Fatalf("order row survived rollback: %d", n)
	}
	if n := f.count(t, &model.OrderItem{}); n != 0 {
		t.Fatalf("item row survived rollback: %d", n)
	}
}

func TestPlaceOrderRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Beef", "BF-01", "KG", "50", unit("Box", "20"))
	otherID, otherUnits := f.createProduct(t, "Lamb", "LB-01", "KG", "50", unit("Box", "10"))
	ctx := context.Background()

	cases := []struct {
		name string
		req  *PlaceOrderRequest
		want error
	}{
		{"unknown unit", order("Shop A", pid, 9999, 1), ErrNotFound},
		{"unit of another product", order("Shop A", pid, otherUnits[0], 1), ErrInvalidInput},
		{"zero quantity", order("Shop A", pid, units[0], 0), ErrInvalidInput},
		{"negative quantity", order("Shop A", pid, units[0], -2), ErrInvalidInput},
		{"blank store", order("   ", pid, units[0], 1), ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.orders.PlaceOrder(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := f.catalog.ToggleProduct(ctx, otherID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.PlaceOrder(ctx, order("Shop A", otherID, otherUnits[0], 1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inactive product: want ErrInvalidInput, got %v", err)
	}
	if !f.stock(t, pid).Equal(dec("50")) || !f.stock(t, otherID).Equal(dec("50")) {
		t.Fatal("rejected orders changed stock")
	}
}

func TestDuplicateOrderNumberIsConflict(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Beef", "BF-01", "KG", "100", unit("Box", "20"))
	fixed := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	f.orders.clock = func() time.Time { return fixed }

	if _, err := f.orders.PlaceOrder(context.Background(), order("Shop A", pid, units[0], 1)); err != nil {
		t.Fatal(err)
	}
	_, err := f.orders.PlaceOrder(context.Background(), order("Shop B", pid, units[0], 1))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if !f.stock(t, pid).Equal(dec("80")) {
		t.Fatalf("conflicting order deducted stock: %s", f.stock(t, pid))
	}
}

func TestConcurrentOrdersNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	pid, units := f.createProduct(t, "Chicken Wings", "CW-01", "KG", "100", unit("Box", "20"))

	const attempts = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		refused   int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.PlaceOrder(context.Background(), order("Shop A", pid, units[0], 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientStock):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 || refused != attempts-5 {
		t.Fatalf("want 5 successes, got %d (refused %d)", succeeded, refused)
	}
	if got := f.stock(t, pid); !got.IsZero() {
		t.Fatalf("want stock 0, got %s", got)
	}
}

func TestStockEqualsLoggedMovementsMinusOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, units := f.createProduct(t, "Duck", "DK-01", "KG", "40", unit("Box", "7.5"))

	steps := []func() error{
		func() error { _, err := f.orders.PlaceOrder(ctx, order("Shop A", pid, units[0], 2)); return err },
		func() error {
			_, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("30"), Note: "delivery"})
			return err
		},
		func() error { _, err := f.orders.PlaceOrder(ctx, order("Shop B", pid, units[0], 3)); return err },
		func() error {
			_, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("-2.5"), Note: "spoiled"})
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	var logged, ordered struct{ Total float64 }
	f.db.Model(&model.InventoryLog{}).Select("COALESCE(SUM(change_qty), 0) AS total").Where("product_id = ?", pid).Scan(&logged)
	f.db.Model(&model.OrderItem{}).Select("COALESCE(SUM(calculated_qty), 0) AS total").Where("product_id = ?", pid).Scan(&ordered)

	stock := f.stock(t, pid)
	if want := dec("30"); !stock.Equal(want) {
		t.Fatalf("want stock %s, got %s", want, stock)
	}
	if balance := logged.Total - ordered.Total; balance != 30 {
		t.Fatalf("logs minus orders = %v, stock = %s", balance, stock)
	}
}
