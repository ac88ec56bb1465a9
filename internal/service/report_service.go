package service

import (
	"context"
	"fmt"
	"time"

	"go-store-orders/internal/repository"
	"go-store-orders/pkg/localtime"

	"github.com/shopspring/decimal"
)

// ProductView is one orderable (product, unit) pair. The legacy fields keep older store clients working.
type ProductView struct {
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	BaseUnit     string          `json:"base_unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	StockLeft    string          `json:"stock_left"`
	UnitID       uint            `json:"unit_id"`
	SellingUnit  string          `json:"selling_unit"`
	Rate         decimal.Decimal `json:"rate"`
}

type OrderView struct {
	OrderNo     string `json:"order_no"`
	Store       string `json:"store"`
	Time        string `json:"time"`
	Product     string `json:"product"`
	Qty         string `json:"qty"`
	TotalWeight string `json:"total_weight"`

	OrderID       uint            `json:"order_id"`
	Status        string          `json:"status"`
	OrderDate     time.Time       `json:"order_date"`
	Quantity      int             `json:"quantity"`
	UnitName      string          `json:"unit_name"`
	CalculatedQty decimal.Decimal `json:"calculated_qty"`
	BaseUnit      string          `json:"base_unit"`
}

type InventoryLogView struct {
	repository.InventoryLogRow
	Time string `json:"time"`
}

type ProductLogView struct {
	repository.ProductLogRow
	Time string `json:"time"`
}

// OrderQuery filters order history. Dates are inclusive UTC+8 calendar days (YYYY-MM-DD).
type OrderQuery struct {
	Store     string
	StartDate string
	EndDate   string
}

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

type ReportService interface {
	Catalog(ctx context.Context) ([]ProductView, error)
	Orders(ctx context.Context, q OrderQuery) ([]OrderView, error)
	AdminProducts(ctx context.Context) ([]repository.ProductRow, error)
	InventoryLogs(ctx context.Context, startDate, endDate string) ([]InventoryLogView, error)
	ProductLogs(ctx context.Context, limit int) ([]ProductLogView, error)
}

type reportService struct {
	repo    repository.ReportRepository
	timeout time.Duration
}

func NewReportService(repo repository.ReportRepository, timeout time.Duration) ReportService {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &reportService{repo: repo, timeout: timeout}
}

func (s *reportService) Catalog(ctx context.Context) ([]ProductView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.ActiveCatalog(ctx)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]ProductView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductView{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			SKU:          r.SKU,
			BaseUnit:     r.BaseUnit,
			CurrentStock: r.CurrentStock,
			StockLeft:    FormatQty(r.CurrentStock, r.BaseUnit),
			UnitID:       r.UnitID,
			SellingUnit:  r.UnitName,
			Rate:         r.ConversionRate,
		})
	}
	return out, nil
}

func (s *reportService) Orders(ctx context.Context, q OrderQuery) ([]OrderView, error) {
	from, to, err := dayRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.Orders(ctx, repository.OrderFilter{Store: q.Store, From: from, To: to})
	if err != nil {
		return nil, internal(err)
	}
	out := make([]OrderView, 0, len(rows))
	for _, r := range rows {
		out = append(out, OrderView{
			OrderNo:       r.OrderNumber,
			Store:         r.StoreName,
			Time:          localtime.Format(r.OrderDate),
			Product:       r.ProductName,
			Qty:           fmt.Sprintf("%d %s", r.Quantity, r.UnitName),
			TotalWeight:   FormatQty(r.CalculatedQty, r.BaseUnit),
			OrderID:       r.OrderID,
			Status:        r.Status,
			OrderDate:     r.OrderDate.UTC(),
			Quantity:      r.Quantity,
			UnitName:      r.UnitName,
			CalculatedQty: r.CalculatedQty,
			BaseUnit:      r.BaseUnit,
		})
	}
	return out, nil
}

func (s *reportService) AdminProducts(ctx context.Context) ([]repository.ProductRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.AllProducts(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return rows, nil
}

func (s *reportService) InventoryLogs(ctx context.Context, startDate, endDate string) ([]InventoryLogView, error) {
	from, to, err := dayRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.InventoryLogs(ctx, from, to)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]InventoryLogView, 0, len(rows))
	for _, r := range rows {
		out = append(out, InventoryLogView{InventoryLogRow: r, Time: localtime.Format(r.CreatedAt)})
	}
	return out, nil
}

func (s *reportService) ProductLogs(ctx context.Context, limit int) ([]ProductLogView, error) {
	switch {
	case limit <= 0:
		limit = defaultLogLimit
	case limit > maxLogLimit:
		limit = maxLogLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.ProductLogs(ctx, limit)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]ProductLogView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductLogView{ProductLogRow: r, Time: localtime.Format(r.CreatedAt)})
	}
	return out, nil
}

// dayRange parses optional inclusive UTC+8 days and rejects an inverted range.
func dayRange(startDate, endDate string) (from, to time.Time, err error) {
	from, to, err = localtime.DayRange(startDate, endDate)
	if err != nil {
		return from, to, invalidInput("%s", err.Error())
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, invalidInput("start_date must not be after end_date")
	}
	return from, to, nil
}
