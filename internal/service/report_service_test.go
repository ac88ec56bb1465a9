package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCatalogListsActiveProductsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Chicken Breast", "CB-01", "KG", "100", unit("Box", "20"), unit("Bag", "5"))
	hidden, _ := f.createProduct(t, "Lamb", "LB-01", "KG", "10", unit("Box", "10"))
	f.createProduct(t, "No Units", "NU-01", "KG", "10")
	if _, err := f.catalog.ToggleProduct(ctx, hidden); err != nil {
		t.Fatal(err)
	}

	items, err := f.reports.Catalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 rows, got %+v", items)
	}
	for _, it := range items {
		if it.ProductID != pid {
			t.Fatalf("unexpected product %+v", it)
		}
	}
	if items[0].StockLeft != "100 KG" || items[0].SellingUnit != "Box" || !items[0].Rate.Equal(dec("20")) {
		t.Fatalf("unexpected first row %+v", items[0])
	}
}

func TestOrdersFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, units := f.createProduct(t, "Chicken Breast", "CB-01", "KG", "1000", unit("Box", "20"))

	// 2026-03-10 23:30 and 2026-03-11 00:30 in UTC+8
	f.clock.t = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC).Add(-time.Second)
	if _, err := f.orders.PlaceOrder(ctx, order("Central Kitchen", pid, units[0], 1)); err != nil {
		t.Fatal(err)
	}
	f.clock.t = time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC).Add(-time.Second)
	if _, err := f.orders.PlaceOrder(ctx, order("Shop 100%", pid, units[0], 5)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.PlaceOrder(ctx, order("Shop 1000", pid, units[0], 2)); err != nil {
		t.Fatal(err)
	}

	all, err := f.reports.Orders(ctx, OrderQuery{})
	if err != nil || len(all) != 3 {
		t.Fatalf("all orders: %d %v", len(all), err)
	}
	if all[0].Store != "Shop 1000" {
		t.Fatalf("want newest first, got %+v", all[0])
	}
	if all[1].Qty != "5 Box" || all[1].TotalWeight != "100 KG" || all[1].Time != "2026-03-11 00:30" {
		t.Fatalf("unexpected display fields %+v", all[1])
	}

	got, _ := f.reports.Orders(ctx, OrderQuery{Store: "KITCHEN"})
	if len(got) != 1 || got[0].Store != "Central Kitchen" {
		t.Fatalf("case-insensitive store filter: %+v", got)
	}
	got, _ = f.reports.Orders(ctx, OrderQuery{Store: "100%"})
	if len(got) != 1 || got[0].Store != "Shop 100%" {
		t.Fatalf("LIKE wildcards must be literal: %+v", got)
	}

	got, _ = f.reports.Orders(ctx, OrderQuery{StartDate: "2026-03-10", EndDate: "2026-03-10"})
	if len(got) != 1 || got[0].Store != "Central Kitchen" {
		t.Fatalf("local day 2026-03-10: %+v", got)
	}
	got, _ = f.reports.Orders(ctx, OrderQuery{StartDate: "2026-03-11"})
	if len(got) != 2 {
		t.Fatalf("from 2026-03-11: %+v", got)
	}

	if _, err := f.reports.Orders(ctx, OrderQuery{StartDate: "11/03/2026"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad date: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.reports.Orders(ctx, OrderQuery{StartDate: "2026-03-12", EndDate: "2026-03-10"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted range: want ErrInvalidInput, got %v", err)
	}
}

func TestLogsAreReadable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, _ := f.createProduct(t, "Beef", "BF-01", "KG", "10", unit("Box", "2"))
	if _, err := f.inventory.Restock(ctx, &RestockRequest{ProductID: pid, Quantity: dec("5"), Note: "delivery"}); err != nil {
		t.Fatal(err)
	}

	inv, err := f.reports.InventoryLogs(ctx, "", "")
	if err != nil || len(inv) != 2 {
		t.Fatalf("inventory logs: %+v %v", inv, err)
	}
	if inv[0].Note != "delivery" || inv[0].ProductName != "Beef" || inv[0].Time == "" {
		t.Fatalf("newest first expected: %+v", inv[0])
	}

	if _, err := f.reports.InventoryLogs(ctx, "2026-03-12", "2026-03-10"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted log range: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.reports.InventoryLogs(ctx, "03/10/2026", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad log date: want ErrInvalidInput, got %v", err)
	}

	cfg, err := f.reports.ProductLogs(ctx, 1)
	if err != nil || len(cfg) != 1 || cfg[0].ActionType != "CREATE_UNIT" {
		t.Fatalf("product logs: %+v %v", cfg, err)
	}

	products, err := f.reports.AdminProducts(ctx)
	if err != nil || len(products) != 1 || products[0].UnitCount != 1 || !products[0].CurrentStock.Equal(dec("15")) {
		t.Fatalf("admin products: %+v %v", products, err)
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cb, cbUnits := f.createProduct(t, "Chicken Breast", "CB-01", "KG", "1000", unit("Box", "20"))
	beef, beefUnits := f.createProduct(t, "Beef", "BF-01", "KG", "8", unit("KG", "1"))

	f.clock.t = time.Date(2026, 3, 9, 2, 0, 0, 0, time.UTC)
	mustOrder := func(store string, pid, uid uint, qty int) {
		t.Helper()
		if _, err := f.orders.PlaceOrder(ctx, order(store, pid, uid, qty)); err != nil {
			t.Fatal(err)
		}
	}
	mustOrder("Shop A", cb, cbUnits[0], 2) // 40 KG
	mustOrder("Shop A", beef, beefUnits[0], 3)
	mustOrder("Shop B", cb, cbUnits[0], 1)

	// Previous month, outside the window.
	f.clock.t = time.Date(2026, 2, 20, 2, 0, 0, 0, time.UTC)
	mustOrder("Shop C", cb, cbUnits[0], 10)

	f.dashboard.clock = func() time.Time { return time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC) }
	stats, err := f.dashboard.GetDashboardStats(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Month != "2026-03" || stats.MonthOrders != 3 || !stats.MonthShippedQty.Equal(dec("63")) {
		t.Fatalf("unexpected KPIs %+v", stats)
	}
	// beef: 8 - 3 = 5 < 10
	if stats.LowStockCount != 1 {
		t.Fatalf("want 1 low-stock product, got %d", stats.LowStockCount)
	}
	if len(stats.TopProducts) != 2 || stats.TopProducts[0].Name != "Chicken Breast" || !stats.TopProducts[0].TotalQty.Equal(dec("60")) {
		t.Fatalf("top products %+v", stats.TopProducts)
	}
	if len(stats.TopStores) != 2 || stats.TopStores[0].Name != "Shop A" || stats.TopStores[0].OrderCount != 2 {
		t.Fatalf("top stores %+v", stats.TopStores)
	}

	if len(stats.Trend) != 14 || stats.Trend[13].Date != "2026-03-10" {
		t.Fatalf("trend window %+v", stats.Trend)
	}
	day := stats.Trend[12] // 2026-03-09
	if day.Date != "2026-03-09" || day.Orders != 3 || !day.TotalQty.Equal(dec("63")) {
		t.Fatalf("trend day %+v", day)
	}

	feb, err := f.dashboard.GetDashboardStats(ctx, "2026-02")
	if err != nil || feb.MonthOrders != 1 || len(feb.TopStores) != 1 || feb.TopStores[0].Name != "Shop C" {
		t.Fatalf("february: %+v %v", feb, err)
	}

	if _, err := f.dashboard.GetDashboardStats(ctx, "March"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}
