package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ReportRepository serves the read-only projections. Every filter is bound as a parameter.
type ReportRepository interface {
	ActiveCatalog(ctx context.Context) ([]CatalogRow, error)
	AllProducts(ctx context.Context) ([]ProductRow, error)
	Orders(ctx context.Context, f OrderFilter) ([]OrderRow, error)
	InventoryLogs(ctx context.Context, from, to time.Time) ([]InventoryLogRow, error)
	ProductLogs(ctx context.Context, limit int) ([]ProductLogRow, error)

	OrderCount(ctx context.Context, from, to time.Time) (int64, error)
	ShippedQty(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	LowStockCount(ctx context.Context, threshold decimal.Decimal) (int64, error)
	OrderTotalsSince(ctx context.Context, from time.Time) ([]OrderTotalRow, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]RankRow, error)
	TopStores(ctx context.Context, from, to time.Time, limit int) ([]RankRow, error)
}

// CatalogRow is one (active product, sale unit) pair.
type CatalogRow struct {
	ProductID      uint            `db:"product_id"`
	ProductName    string          `db:"product_name"`
	SKU            string          `db:"sku"`
	BaseUnit       string          `db:"base_unit"`
	CurrentStock   decimal.Decimal `db:"current_stock"`
	UnitID         uint            `db:"unit_id"`
	UnitName       string          `db:"unit_name"`
	ConversionRate decimal.Decimal `db:"conversion_rate"`
}

type ProductRow struct {
	ID           uint            `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	SKU          string          `db:"sku" json:"sku"`
	BaseUnit     string          `db:"base_unit" json:"base_unit"`
	CurrentStock decimal.Decimal `db:"current_stock" json:"current_stock"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	UnitCount    int64           `db:"unit_count" json:"unit_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

type OrderFilter struct {
	Store string // case-insensitive substring
	From  time.Time
	To    time.Time // exclusive
}

type OrderRow struct {
	OrderID       uint            `db:"order_id"`
	OrderNumber   string          `db:"order_number"`
	StoreName     string          `db:"store_name"`
	Status        string          `db:"status"`
	OrderDate     time.Time       `db:"order_date"`
	ProductName   string          `db:"product_name"`
	BaseUnit      string          `db:"base_unit"`
	Quantity      int             `db:"quantity"`
	UnitName      string          `db:"unit_name"`
	CalculatedQty decimal.Decimal `db:"calculated_qty"`
}

type InventoryLogRow struct {
	ID          uint            `db:"id" json:"id"`
	ProductID   uint            `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	BaseUnit    string          `db:"base_unit" json:"base_unit"`
	ChangeQty   decimal.Decimal `db:"change_qty" json:"change_qty"`
	Note        string          `db:"note" json:"note"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type ProductLogRow struct {
	ID          uint      `db:"id" json:"id"`
	ProductName string    `db:"product_name" json:"product_name"`
	ActionType  string    `db:"action_type" json:"action_type"`
	Details     string    `db:"details" json:"details"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type OrderTotalRow struct {
	OrderDate time.Time       `db:"order_date" json:"order_date"`
	TotalQty  decimal.Decimal `db:"total_qty" json:"total_qty"`
}

type RankRow struct {
	Name       string          `db:"name" json:"name"`
	OrderCount int64           `db:"order_count" json:"order_count"`
	TotalQty   decimal.Decimal `db:"total_qty" json:"total_qty"`
}

type reportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) ActiveCatalog(ctx context.Context) ([]CatalogRow, error) {
	rows := []CatalogRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT p.id AS product_id, p.name AS product_name, p.sku, p.base_unit, p.current_stock,
		       u.id AS unit_id, u.unit_name, u.conversion_rate
		FROM products p
		JOIN product_units u ON u.product_id = p.id
		WHERE p.is_active = ?
		ORDER BY p.name, u.id
	`), true)
	return rows, err
}

func (r *reportRepo) AllProducts(ctx context.Context) ([]ProductRow, error) {
	rows := []ProductRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.name, p.sku, p.base_unit, p.current_stock, p.is_active, p.created_at,
		       (SELECT COUNT(*) FROM product_units u WHERE u.product_id = p.id) AS unit_count
		FROM products p
		ORDER BY p.id
	`)
	return rows, err
}

func (r *reportRepo) Orders(ctx context.Context, f OrderFilter) ([]OrderRow, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Store != "" {
		where = append(where, `LOWER(o.store_name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(f.Store))+"%")
	}
	where, args = appendRange(where, args, "o.order_date", f.From, f.To)

	q := `
		SELECT o.id AS order_id, o.order_number, o.store_name, o.status, o.order_date,
		       p.name AS product_name, p.base_unit, oi.quantity, u.unit_name, oi.calculated_qty
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		JOIN product_units u ON u.id = oi.unit_id` + whereClause(where) + `
		ORDER BY o.order_date DESC, o.id DESC`

	rows := []OrderRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...)
	return rows, err
}

func (r *reportRepo) InventoryLogs(ctx context.Context, from, to time.Time) ([]InventoryLogRow, error) {
	where, args := appendRange(nil, nil, "l.created_at", from, to)
	q := `
		SELECT l.id, l.product_id, p.name AS product_name, p.base_unit, l.change_qty, l.note, l.created_at
		FROM inventory_logs l
		JOIN products p ON p.id = l.product_id` + whereClause(where) + `
		ORDER BY l.created_at DESC, l.id DESC`

	rows := []InventoryLogRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...)
	return rows, err
}

func (r *reportRepo) ProductLogs(ctx context.Context, limit int) ([]ProductLogRow, error) {
	rows := []ProductLogRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, product_name, action_type, details, created_at
		FROM product_config_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`), limit)
	return rows, err
}

func (r *reportRepo) OrderCount(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`
		SELECT COUNT(*) FROM orders WHERE order_date >= ? AND order_date < ?
	`), from, to)
	return n, err
}

func (r *reportRepo) ShippedQty(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`
		SELECT COALESCE(SUM(oi.calculated_qty), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= ? AND o.order_date < ?
	`), from, to)
	return storageRound(total), err
}

func (r *reportRepo) LowStockCount(ctx context.Context, threshold decimal.Decimal) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`
		SELECT COUNT(*) FROM products WHERE is_active = ? AND current_stock < ?
	`), true, threshold)
	return n, err
}

func (r *reportRepo) OrderTotalsSince(ctx context.Context, from time.Time) ([]OrderTotalRow, error) {
	rows := []OrderTotalRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT o.order_date, COALESCE(SUM(oi.calculated_qty), 0) AS total_qty
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.order_date >= ?
		GROUP BY o.id, o.order_date
	`), from)
	for i := range rows {
		rows[i].TotalQty = storageRound(rows[i].TotalQty)
	}
	return rows, err
}

func (r *reportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]RankRow, error) {
	rows := []RankRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT p.name AS name, COUNT(DISTINCT oi.order_id) AS order_count,
		       COALESCE(SUM(oi.calculated_qty), 0) AS total_qty
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.order_date >= ? AND o.order_date < ?
		GROUP BY p.id, p.name
		ORDER BY total_qty DESC, p.name ASC
		LIMIT ?
	`), from, to, limit)
	return roundRanks(rows), err
}

func (r *reportRepo) TopStores(ctx context.Context, from, to time.Time, limit int) ([]RankRow, error) {
	rows := []RankRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT o.store_name AS name, COUNT(DISTINCT o.id) AS order_count,
		       COALESCE(SUM(oi.calculated_qty), 0) AS total_qty
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.order_date >= ? AND o.order_date < ?
		GROUP BY o.store_name
		ORDER BY order_count DESC, total_qty DESC, o.store_name ASC
		LIMIT ?
	`), from, to, limit)
	return roundRanks(rows), err
}

func roundRanks(rows []RankRow) []RankRow {
	for i := range rows {
		rows[i].TotalQty = storageRound(rows[i].TotalQty)
	}
	return rows
}

func appendRange(where []string, args []interface{}, column string, from, to time.Time) ([]string, []interface{}) {
	if !from.IsZero() {
		where = append(where, column+" >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		where = append(where, column+" < ?")
		args = append(args, to.UTC())
	}
	return where, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
