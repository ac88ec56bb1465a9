package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusApproved = "APPROVED"

type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	StoreName   string    `gorm:"type:varchar(255);not null;index" json:"store_name"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	OrderDate   time.Time `gorm:"not null;index" json:"order_date"` // UTC

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem keeps both the requested sale-unit quantity and the base-unit amount
// computed at order time. CalculatedQty is never recomputed.
type OrderItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	UnitID        uint            `gorm:"not null;index" json:"unit_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	CalculatedQty decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"calculated_qty"`

	Product Product     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Unit    ProductUnit `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}
