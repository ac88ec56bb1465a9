package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-store-orders/internal/model"
	"go-store-orders/internal/repository"
	"go-store-orders/internal/testdb"
	"go-store-orders/internal/ws"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(ev ws.Event) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

type fixture struct {
	db        *gorm.DB
	sqlx      *sqlx.DB
	pub       *recordingPublisher
	orders    *orderService
	catalog   CatalogService
	inventory InventoryService
	users     UserService
	reports   ReportService
	dashboard *dashboardService
	clock     *stepClock
}

const testDefaultPassword = "123456"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, x := testdb.NewWithSQLX(t)
	pub := &recordingPublisher{}

	productRepo := repository.NewProductRepo()
	auditRepo := repository.NewAuditRepo()
	reportRepo := repository.NewReportRepo(x)

	clock := &stepClock{t: time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC), step: time.Second}
	orders := NewOrderService(productRepo, repository.NewOrderRepo(), db, 5*time.Second).(*orderService)
	orders.clock = clock.Now

	dashboard := NewDashboardService(reportRepo, 10, 14, 5*time.Second).(*dashboardService)

	return &fixture{
		db:        db,
		sqlx:      x,
		pub:       pub,
		orders:    orders,
		catalog:   NewCatalogService(productRepo, auditRepo, db, pub, 5*time.Second),
		inventory: NewInventoryService(productRepo, auditRepo, db, pub, 5*time.Second),
		users:     NewUserService(repository.NewStoreUserRepo(), db, testDefaultPassword, 5*time.Second),
		reports:   NewReportService(reportRepo, 5*time.Second),
		dashboard: dashboard,
		clock:     clock,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// createProduct adds a product with the given units and returns its id and unit ids in order.
func (f *fixture) createProduct(t *testing.T, name, sku, baseUnit, stock string, units ...UnitInput) (uint, []uint) {
	t.Helper()
	res, err := f.catalog.CreateProduct(context.Background(), &CreateProductRequest{
		Name:         name,
		SKU:          sku,
		BaseUnit:     baseUnit,
		InitialStock: dec(stock),
		Units:        units,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}

	var rows []model.ProductUnit
	if err := f.db.Where("product_id = ?", res.ID).Order("id").Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	ids := make([]uint, 0, len(rows))
	for _, u := range rows {
		ids = append(ids, u.ID)
	}
	return res.ID, ids
}

func (f *fixture) stock(t *testing.T, productID uint) decimal.Decimal {
	t.Helper()
	var p model.Product
	if err := f.db.First(&p, productID).Error; err != nil {
		t.Fatal(err)
	}
	return p.CurrentStock
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func unit(name, rate string) UnitInput {
	return UnitInput{UnitName: name, ConversionRate: dec(rate)}
}

func order(store string, productID, unitID uint, qty int) *PlaceOrderRequest {
	return &PlaceOrderRequest{StoreName: store, ProductID: productID, UnitID: unitID, Quantity: qty}
}
