package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-store-orders/internal/model"
	"go-store-orders/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RestockRequest adjusts stock by a signed amount in base units.
type RestockRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note" validate:"max=500"`
}

type RestockResult struct {
	WriteResult
	CurrentStock decimal.Decimal `json:"current_stock"`
}

type InventoryService interface {
	Restock(ctx context.Context, req *RestockRequest) (*RestockResult, error)
}

type inventoryService struct {
	txRunner
	productRepo repository.ProductRepository
	audit       auditor
}

func NewInventoryService(pRepo repository.ProductRepository, aRepo repository.AuditRepository, db *gorm.DB, pub EventPublisher, timeout time.Duration) InventoryService {
	return &inventoryService{
		txRunner:    newTxRunner(db, timeout),
		productRepo: pRepo,
		audit:       newAuditor(aRepo, pub),
	}
}

// Restock applies a manual stock movement. Negative quantities are corrections and may not
// take stock below zero.
func (s *inventoryService) Restock(ctx context.Context, req *RestockRequest) (*RestockResult, error) {
	if req.Quantity.IsZero() {
		return nil, invalidInput("Quantity must not be zero")
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = "restock"
	}

	var (
		product *model.Product
		current decimal.Decimal
		entry   *model.InventoryLog
	)
	err := s.guarded(ctx, guardedWrite{
		Input: req,
		Check: func(tx *gorm.DB) error {
			var err error
			product, err = s.productRepo.FindByID(tx, req.ProductID)
			if err != nil {
				if repository.IsNotFound(err) {
					return notFound("Product %d not found", req.ProductID)
				}
				return err
			}
			return nil
		},
		Write: func(tx *gorm.DB) error {
			ok, err := s.productRepo.AdjustStock(tx, product.ID, req.Quantity)
			if err != nil && !repository.IsCheckViolation(err) {
				return err
			}
			if !ok || err != nil {
				return &InsufficientStockError{Current: product.CurrentStock, Requested: req.Quantity.Neg(), BaseUnit: product.BaseUnit}
			}
			fresh, err := s.productRepo.FindByID(tx, product.ID)
			if err != nil {
				return err
			}
			current = fresh.CurrentStock
			return nil
		},
		Log: func(tx *gorm.DB) (err error) {
			entry, err = s.audit.inventoryLog(tx, product.ID, req.Quantity, note)
			return err
		},
		After: func() {
			s.audit.publishInventory(entry, fmt.Sprintf("%s %s for '%s' (%s)",
				signed(req.Quantity), product.BaseUnit, product.Name, note))
		},
	})
	if err != nil {
		return nil, err
	}

	return &RestockResult{
		WriteResult:  *success("Stock for '%s' is now %s", product.Name, FormatQty(current, product.BaseUnit)),
		CurrentStock: current,
	}, nil
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
