package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StorageScale is the number of fractional digits decimal(20,4) columns keep.
const StorageScale = 4

// isSQLite reports whether tx runs on SQLite, where decimal columns have REAL storage.
func isSQLite(tx *gorm.DB) bool {
	return tx.Dialector != nil && tx.Dialector.Name() == "sqlite"
}

// storageRound trims float noise from SQL aggregates back to column precision.
func storageRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(StorageScale)
}
