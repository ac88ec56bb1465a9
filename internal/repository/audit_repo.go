package repository

import (
	"go-store-orders/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditRepository only appends; log rows are never updated or deleted.
type AuditRepository interface {
	AppendInventoryLog(tx *gorm.DB, entry *model.InventoryLog) error
	AppendConfigLog(tx *gorm.DB, entry *model.ProductConfigLog) error
}

type auditRepo struct{}

func NewAuditRepo() AuditRepository {
	return &auditRepo{}
}

func (r *auditRepo) AppendInventoryLog(tx *gorm.DB, entry *model.InventoryLog) error {
	return tx.Omit(clause.Associations).Create(entry).Error
}

func (r *auditRepo) AppendConfigLog(tx *gorm.DB, entry *model.ProductConfigLog) error {
	return tx.Create(entry).Error
}
