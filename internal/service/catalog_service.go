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

type UnitInput struct {
	UnitName       string          `json:"unit_name" validate:"notblank,max=50"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type CreateProductRequest struct {
	Name         string          `json:"name" validate:"notblank,max=255"`
	SKU          string          `json:"sku" validate:"notblank,max=50"`
	BaseUnit     string          `json:"base_unit" validate:"notblank,max=20"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	Units        []UnitInput     `json:"units" validate:"omitempty,dive"`
}

type CreateUnitRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	UnitInput
}

type CatalogService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*WriteResult, error)
	ToggleProduct(ctx context.Context, id uint) (*WriteResult, error)
	ListUnits(ctx context.Context, productID uint) ([]model.ProductUnit, error)
	CreateUnit(ctx context.Context, req *CreateUnitRequest) (*WriteResult, error)
	DeleteUnit(ctx context.Context, id uint) (*WriteResult, error)
}

type catalogService struct {
	txRunner
	productRepo repository.ProductRepository
	audit       auditor
}

func NewCatalogService(pRepo repository.ProductRepository, aRepo repository.AuditRepository, db *gorm.DB, pub EventPublisher, timeout time.Duration) CatalogService {
	return &catalogService{
		txRunner:    newTxRunner(db, timeout),
		productRepo: pRepo,
		audit:       newAuditor(aRepo, pub),
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*WriteResult, error) {
	if req.InitialStock.IsNegative() {
		return nil, invalidInput("Initial stock cannot be negative")
	}
	seen := make(map[string]bool, len(req.Units))
	for _, u := range req.Units {
		if !u.ConversionRate.IsPositive() {
			return nil, invalidInput("Conversion rate for '%s' must be positive", u.UnitName)
		}
		key := strings.ToLower(strings.TrimSpace(u.UnitName))
		if seen[key] {
			return nil, invalidInput("Unit '%s' is listed twice", u.UnitName)
		}
		seen[key] = true
	}

	product := &model.Product{
		Name:         strings.TrimSpace(req.Name),
		SKU:          strings.TrimSpace(req.SKU),
		BaseUnit:     strings.TrimSpace(req.BaseUnit),
		CurrentStock: req.InitialStock,
		IsActive:     true,
	}
	var logs []*model.ProductConfigLog
	var stockLog *model.InventoryLog

	err := s.guarded(ctx, guardedWrite{
		Input: req,
		Check: func(tx *gorm.DB) error {
			if _, err := s.productRepo.FindBySKU(tx, product.SKU); err == nil {
				return conflict("SKU '%s' already exists", product.SKU)
			} else if !repository.IsNotFound(err) {
				return err
			}
			return nil
		},
		Write: func(tx *gorm.DB) error {
			if err := s.productRepo.Create(tx, product); err != nil {
				if repository.IsUniqueViolation(err) {
					return conflict("SKU '%s' already exists", product.SKU)
				}
				return err
			}
			for _, u := range req.Units {
				unit := &model.ProductUnit{
					ProductID:      product.ID,
					UnitName:       strings.TrimSpace(u.UnitName),
					ConversionRate: u.ConversionRate,
				}
				if err := s.productRepo.CreateUnit(tx, unit); err != nil {
					return err
				}
				product.Units = append(product.Units, *unit)
			}
			return nil
		},
		Log: func(tx *gorm.DB) error {
			entry, err := s.audit.configLog(tx, product.Name, model.ActionCreateProduct,
				fmt.Sprintf("Created product '%s' (SKU %s, base unit %s, initial stock %s)",
					product.Name, product.SKU, product.BaseUnit, FormatQty(product.CurrentStock, product.BaseUnit)))
			if err != nil {
				return err
			}
			logs = append(logs, entry)

			for _, u := range product.Units {
				entry, err := s.audit.configLog(tx, product.Name, model.ActionCreateUnit, unitDetails(u, product))
				if err != nil {
					return err
				}
				logs = append(logs, entry)
			}

			// Opening balance keeps stock equal to the sum of its inventory movements.
			if product.CurrentStock.IsPositive() {
				stockLog, err = s.audit.inventoryLog(tx, product.ID, product.CurrentStock, "initial stock")
				if err != nil {
					return err
				}
			}
			return nil
		},
		After: func() {
			for _, entry := range logs {
				s.audit.publishConfig(entry)
			}
			s.audit.publishInventory(stockLog, fmt.Sprintf("Initial stock for '%s'", product.Name))
		},
	})
	if err != nil {
		return nil, err
	}

	res := success("Created product '%s'", product.Name)
	res.ID = product.ID
	return res, nil
}

func (s *catalogService) ToggleProduct(ctx context.Context, id uint) (*WriteResult, error) {
	var (
		product *model.Product
		active  bool
		entry   *model.ProductConfigLog
	)
	err := s.guarded(ctx, guardedWrite{
		Check: func(tx *gorm.DB) (err error) {
			product, err = s.findProduct(tx, id)
			return err
		},
		Write: func(tx *gorm.DB) (err error) {
			active, err = s.productRepo.ToggleActive(tx, id)
			return err
		},
		Log: func(tx *gorm.DB) (err error) {
			entry, err = s.audit.configLog(tx, product.Name, model.ActionToggleProduct,
				fmt.Sprintf("Product '%s' %s", product.Name, activeWord(active)))
			return err
		},
		After: func() { s.audit.publishConfig(entry) },
	})
	if err != nil {
		return nil, err
	}

	res := success("Product '%s' %s", product.Name, activeWord(active))
	res.ID = id
	res.IsActive = &active
	return res, nil
}

func (s *catalogService) ListUnits(ctx context.Context, productID uint) ([]model.ProductUnit, error) {
	var units []model.ProductUnit
	err := s.read(ctx, func(db *gorm.DB) error {
		if _, err := s.findProduct(db, productID); err != nil {
			return err
		}
		var err error
		units, err = s.productRepo.FindUnitsByProduct(db, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if units == nil {
		units = []model.ProductUnit{}
	}
	return units, nil
}

func (s *catalogService) CreateUnit(ctx context.Context, req *CreateUnitRequest) (*WriteResult, error) {
	if !req.ConversionRate.IsPositive() {
		return nil, invalidInput("Conversion rate must be positive")
	}

	var (
		product *model.Product
		entry   *model.ProductConfigLog
	)
	unit := &model.ProductUnit{
		ProductID:      req.ProductID,
		UnitName:       strings.TrimSpace(req.UnitName),
		ConversionRate: req.ConversionRate,
	}

	err := s.guarded(ctx, guardedWrite{
		Input: req,
		Check: func(tx *gorm.DB) (err error) {
			product, err = s.findProduct(tx, req.ProductID)
			return err
		},
		Write: func(tx *gorm.DB) error {
			if err := s.productRepo.CreateUnit(tx, unit); err != nil {
				if repository.IsUniqueViolation(err) {
					return conflict("Unit '%s' already exists for '%s'", unit.UnitName, product.Name)
				}
				return err
			}
			return nil
		},
		Log: func(tx *gorm.DB) (err error) {
			entry, err = s.audit.configLog(tx, product.Name, model.ActionCreateUnit, unitDetails(*unit, product))
			return err
		},
		After: func() { s.audit.publishConfig(entry) },
	})
	if err != nil {
		return nil, err
	}

	res := success("Added unit '%s' to '%s'", unit.UnitName, product.Name)
	res.ID = unit.ID
	return res, nil
}

// DeleteUnit refuses to remove a unit that any order item still references.
func (s *catalogService) DeleteUnit(ctx context.Context, id uint) (*WriteResult, error) {
	var (
		unit    *model.ProductUnit
		product *model.Product
		entry   *model.ProductConfigLog
	)
	err := s.guarded(ctx, guardedWrite{
		Check: func(tx *gorm.DB) error {
			var err error
			unit, err = s.productRepo.FindUnit(tx, id)
			if err != nil {
				if repository.IsNotFound(err) {
					return notFound("Unit %d not found", id)
				}
				return err
			}
			if product, err = s.findProduct(tx, unit.ProductID); err != nil {
				return err
			}
			refs, err := s.productRepo.CountUnitReferences(tx, id)
			if err != nil {
				return err
			}
			if refs > 0 {
				return conflict("Unit '%s' is used by %d order item(s) and cannot be deleted", unit.UnitName, refs)
			}
			return nil
		},
		Write: func(tx *gorm.DB) error {
			if err := s.productRepo.DeleteUnit(tx, id); err != nil {
				if repository.IsForeignKeyViolation(err) {
					return conflict("Unit '%s' is used by existing orders and cannot be deleted", unit.UnitName)
				}
				return err
			}
			return nil
		},
		Log: func(tx *gorm.DB) (err error) {
			entry, err = s.audit.configLog(tx, product.Name, model.ActionDeleteUnit,
				fmt.Sprintf("Removed unit '%s' from '%s'", unit.UnitName, product.Name))
			return err
		},
		After: func() { s.audit.publishConfig(entry) },
	})
	if err != nil {
		return nil, err
	}

	return success("Deleted unit '%s' from '%s'", unit.UnitName, product.Name), nil
}

func (s *catalogService) findProduct(tx *gorm.DB, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(tx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Product %d not found", id)
		}
		return nil, err
	}
	return product, nil
}

func unitDetails(u model.ProductUnit, p *model.Product) string {
	return fmt.Sprintf("Added unit '%s' = %s to '%s'", u.UnitName, FormatQty(u.ConversionRate, p.BaseUnit), p.Name)
}
