package model

import "github.com/shopspring/decimal"

// Config log action types.
const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionToggleProduct = "TOGGLE_PRODUCT"
	ActionCreateUnit    = "CREATE_UNIT"
	ActionDeleteUnit    = "DELETE_UNIT"
)

// InventoryLog is append-only: one row per stock adjustment outside the order flow.
type InventoryLog struct {
	BaseModel
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	ChangeQty decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"change_qty"`
	Note      string          `gorm:"type:text" json:"note"`

	Product Product `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// ProductConfigLog is append-only. ProductName is a snapshot, not a foreign key,
// so the text survives later renames or deactivation.
type ProductConfigLog struct {
	BaseModel
	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`
	ActionType  string `gorm:"type:varchar(30);not null;index" json:"action_type"`
	Details     string `gorm:"type:text" json:"details"`
}
