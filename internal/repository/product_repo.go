package repository

import (
	"go-store-orders/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository methods take the *gorm.DB to run on so callers can pass a transaction.
type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindByID(tx *gorm.DB, id uint) (*model.Product, error)
	FindBySKU(tx *gorm.DB, sku string) (*model.Product, error)
	ToggleActive(tx *gorm.DB, id uint) (bool, error)
	DeductStock(tx *gorm.DB, id uint, qty decimal.Decimal) (bool, error)
	AdjustStock(tx *gorm.DB, id uint, delta decimal.Decimal) (bool, error)

	CreateUnit(tx *gorm.DB, unit *model.ProductUnit) error
	FindUnit(tx *gorm.DB, id uint) (*model.ProductUnit, error)
	FindUnitsByProduct(tx *gorm.DB, productID uint) ([]model.ProductUnit, error)
	CountUnitReferences(tx *gorm.DB, unitID uint) (int64, error)
	DeleteUnit(tx *gorm.DB, id uint) error
}

type productRepo struct{}

func NewProductRepo() ProductRepository {
	return &productRepo{}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) FindByID(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(tx *gorm.DB, sku string) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ToggleActive flips is_active in one statement and returns the new value.
func (r *productRepo) ToggleActive(tx *gorm.DB, id uint) (bool, error) {
	res := tx.Model(&model.Product{}).Where("id = ?", id).Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}
	var active bool
	err := tx.Model(&model.Product{}).Select("is_active").Where("id = ?", id).Scan(&active).Error
	return active, err
}

// DeductStock subtracts qty only while enough stock remains. A false result with
// a nil error means the guard rejected the update.
func (r *productRepo) DeductStock(tx *gorm.DB, id uint, qty decimal.Decimal) (bool, error) {
	if isSQLite(tx) {
		return r.applyDelta(tx, id, qty.Neg())
	}
	res := tx.Model(&model.Product{}).
		Where("id = ? AND current_stock >= ?", id, qty).
		Update("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AdjustStock applies a signed delta, refusing any change that would leave stock negative.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uint, delta decimal.Decimal) (bool, error) {
	if isSQLite(tx) {
		return r.applyDelta(tx, id, delta)
	}
	res := tx.Model(&model.Product{}).
		Where("id = ? AND current_stock + ? >= 0", id, delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// applyDelta is the SQLite path. SQLite keeps decimal columns as REAL, so the
// arithmetic and the guard run on decimals here and only the exact result is
// written back. The single SQLite connection serializes writers.
func (r *productRepo) applyDelta(tx *gorm.DB, id uint, delta decimal.Decimal) (bool, error) {
	var product model.Product
	if err := tx.Select("id", "current_stock").First(&product, "id = ?", id).Error; err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	next := product.CurrentStock.Round(StorageScale).Add(delta)
	if next.IsNegative() {
		return false, nil
	}
	res := tx.Model(&model.Product{}).Where("id = ?", id).Update("current_stock", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) CreateUnit(tx *gorm.DB, unit *model.ProductUnit) error {
	return tx.Create(unit).Error
}

func (r *productRepo) FindUnit(tx *gorm.DB, id uint) (*model.ProductUnit, error) {
	var unit model.ProductUnit
	if err := tx.First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *productRepo) FindUnitsByProduct(tx *gorm.DB, productID uint) ([]model.ProductUnit, error) {
	var units []model.ProductUnit
	err := tx.Where("product_id = ?", productID).Order("id ASC").Find(&units).Error
	return units, err
}

func (r *productRepo) CountUnitReferences(tx *gorm.DB, unitID uint) (int64, error) {
	var n int64
	err := tx.Model(&model.OrderItem{}).Where("unit_id = ?", unitID).Count(&n).Error
	return n, err
}

func (r *productRepo) DeleteUnit(tx *gorm.DB, id uint) error {
	res := tx.Delete(&model.ProductUnit{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
