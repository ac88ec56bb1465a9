package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-store-orders/internal/model"
	"go-store-orders/internal/repository"
	"go-store-orders/pkg/localtime"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlaceOrderRequest struct {
	StoreName string `json:"store_name" validate:"notblank,max=255"`
	ProductID uint   `json:"product_id" validate:"required"`
	UnitID    uint   `json:"unit_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type PlaceOrderResult struct {
	Status         string          `json:"status"`
	Message        string          `json:"message"`
	OrderNumber    string          `json:"order_number"`
	DeductedQty    decimal.Decimal `json:"deducted_qty"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error)
}

type orderService struct {
	txRunner
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	clock       func() time.Time
}

func NewOrderService(pRepo repository.ProductRepository, oRepo repository.OrderRepository, db *gorm.DB, timeout time.Duration) OrderService {
	return &orderService{
		txRunner:    newTxRunner(db, timeout),
		productRepo: pRepo,
		orderRepo:   oRepo,
		clock:       time.Now,
	}
}

// PlaceOrder converts the sale-unit quantity to base units and deducts it from stock.
// The order, its item and the deduction commit together or not at all.
func (s *orderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	storeName := strings.TrimSpace(req.StoreName)

	var result *PlaceOrderResult
	err := s.run(ctx, func(tx *gorm.DB) error {
		// 1. Resolve the sale unit and its rate
		unit, err := s.productRepo.FindUnit(tx, req.UnitID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Unit %d not found", req.UnitID)
			}
			return err
		}
		if unit.ProductID != req.ProductID {
			return invalidInput("Unit %d does not belong to product %d", req.UnitID, req.ProductID)
		}

		// 2. Convert
		deduct := ConvertToBase(req.Quantity, unit.ConversionRate)

		// 3. Check stock
		product, err := s.productRepo.FindByID(tx, req.ProductID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Product %d not found", req.ProductID)
			}
			return err
		}
		if !product.IsActive {
			return invalidInput("Product '%s' is not available", product.Name)
		}
		if product.CurrentStock.LessThan(deduct) {
			return &InsufficientStockError{Current: product.CurrentStock, Requested: deduct, BaseUnit: product.BaseUnit}
		}

		// 4. Deduct; the guard re-checks stock at write time
		ok, err := s.productRepo.DeductStock(tx, product.ID, deduct)
		if err != nil {
			if repository.IsCheckViolation(err) {
				return s.insufficient(tx, product, deduct)
			}
			return err
		}
		if !ok {
			return s.insufficient(tx, product, deduct)
		}

		// 5. Record the order and its line
		now := s.clock()
		order := &model.Order{
			OrderNumber: localtime.OrderNumber(now),
			StoreName:   storeName,
			Status:      model.OrderStatusApproved,
			OrderDate:   now.UTC(),
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflict("Order number %s already exists, please retry", order.OrderNumber)
			}
			return err
		}

		item := &model.OrderItem{
			OrderID:       order.ID,
			ProductID:     product.ID,
			UnitID:        unit.ID,
			Quantity:      req.Quantity,
			CalculatedQty: deduct,
		}
		if err := s.orderRepo.CreateItem(tx, item); err != nil {
			return err
		}

		updated, err := s.productRepo.FindByID(tx, product.ID)
		if err != nil {
			return err
		}

		result = &PlaceOrderResult{
			Status:         "success",
			Message:        fmt.Sprintf("Order placed! Deducted %s", FormatQty(deduct, product.BaseUnit)),
			OrderNumber:    order.OrderNumber,
			DeductedQty:    deduct,
			RemainingStock: updated.CurrentStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *orderService) insufficient(tx *gorm.DB, product *model.Product, requested decimal.Decimal) error {
	current := product.CurrentStock
	if fresh, err := s.productRepo.FindByID(tx, product.ID); err == nil {
		current = fresh.CurrentStock
	}
	return &InsufficientStockError{Current: current, Requested: requested, BaseUnit: product.BaseUnit}
}
