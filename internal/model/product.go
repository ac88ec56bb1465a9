package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock-keeping item. CurrentStock is a running balance in BaseUnit terms.
type Product struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	BaseUnit     string          `gorm:"type:varchar(20);not null" json:"base_unit"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:current_stock >= 0" json:"current_stock"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relasi
	Units []ProductUnit `gorm:"constraint:OnDelete:RESTRICT" json:"units,omitempty"`
}

// ProductUnit is a sale unit: 1 UnitName = ConversionRate base units of the product.
type ProductUnit struct {
	BaseModel
	ProductID      uint            `gorm:"not null;uniqueIndex:idx_product_unit_name" json:"product_id"`
	UnitName       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_unit_name" json:"unit_name"`
	ConversionRate decimal.Decimal `gorm:"type:decimal(20,4);not null;check:conversion_rate > 0" json:"conversion_rate"`
}
