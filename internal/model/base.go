package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Quantities go out as JSON numbers, matching what store clients already parse.
	decimal.MarshalJSONWithoutQuotes = true
}

// BaseModel handles the numeric identity and creation timestamp shared by most tables.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
