package service

import (
	"context"
	"time"

	"go-store-orders/internal/repository"
	"go-store-orders/pkg/localtime"

	"github.com/shopspring/decimal"
)

const topN = 5

type DashboardStats struct {
	Month             string               `json:"month"`
	MonthOrders       int64                `json:"month_orders"`
	MonthShippedQty   decimal.Decimal      `json:"month_shipped_qty"`
	LowStockCount     int64                `json:"low_stock_count"`
	LowStockThreshold decimal.Decimal      `json:"low_stock_threshold"`
	Trend             []TrendPoint         `json:"trend"`
	TopProducts       []repository.RankRow `json:"top_products"`
	TopStores         []repository.RankRow `json:"top_stores"`
}

// TrendPoint is one UTC+8 calendar day.
type TrendPoint struct {
	Date     string          `json:"date"`
	Orders   int64           `json:"orders"`
	TotalQty decimal.Decimal `json:"total_qty"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, month string) (*DashboardStats, error)
}

type dashboardService struct {
	repo      repository.ReportRepository
	threshold decimal.Decimal
	trendDays int
	timeout   time.Duration
	clock     func() time.Time
}

func NewDashboardService(repo repository.ReportRepository, lowStockThreshold float64, trendDays int, timeout time.Duration) DashboardService {
	if trendDays <= 0 {
		trendDays = 14
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &dashboardService{
		repo:      repo,
		threshold: decimal.NewFromFloat(lowStockThreshold),
		trendDays: trendDays,
		timeout:   timeout,
		clock:     time.Now,
	}
}

// GetDashboardStats aggregates one calendar month (default: the current UTC+8 month)
// plus a trailing daily trend that always ends today.
func (s *dashboardService) GetDashboardStats(ctx context.Context, month string) (*DashboardStats, error) {
	now := s.clock()
	from, to, err := localtime.MonthRange(month, now)
	if err != nil {
		return nil, invalidInput("%s", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats := &DashboardStats{
		Month:             localtime.In(from).Format(localtime.MonthLayout),
		LowStockThreshold: s.threshold,
	}

	if stats.MonthOrders, err = s.repo.OrderCount(ctx, from, to); err != nil {
		return nil, internal(err)
	}
	if stats.MonthShippedQty, err = s.repo.ShippedQty(ctx, from, to); err != nil {
		return nil, internal(err)
	}
	if stats.LowStockCount, err = s.repo.LowStockCount(ctx, s.threshold); err != nil {
		return nil, internal(err)
	}
	if stats.TopProducts, err = s.repo.TopProducts(ctx, from, to, topN); err != nil {
		return nil, internal(err)
	}
	if stats.TopStores, err = s.repo.TopStores(ctx, from, to, topN); err != nil {
		return nil, internal(err)
	}
	if stats.Trend, err = s.trend(ctx, now); err != nil {
		return nil, internal(err)
	}
	return stats, nil
}

func (s *dashboardService) trend(ctx context.Context, now time.Time) ([]TrendPoint, error) {
	first := localtime.StartOfDay(now).AddDate(0, 0, -(s.trendDays - 1))

	rows, err := s.repo.OrderTotalsSince(ctx, first.UTC())
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, s.trendDays)
	index := make(map[string]int, s.trendDays)
	for i := range points {
		day := first.AddDate(0, 0, i).Format(localtime.DateLayout)
		points[i] = TrendPoint{Date: day, TotalQty: decimal.Zero}
		index[day] = i
	}
	for _, r := range rows {
		i, ok := index[localtime.In(r.OrderDate).Format(localtime.DateLayout)]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].TotalQty = points[i].TotalQty.Add(r.TotalQty)
	}
	return points, nil
}
