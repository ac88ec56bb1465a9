package repository

import (
	"go-store-orders/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	CreateItem(tx *gorm.DB, item *model.OrderItem) error
}

type orderRepo struct{}

func NewOrderRepo() OrderRepository {
	return &orderRepo{}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Omit(clause.Associations).Create(order).Error
}

func (r *orderRepo) CreateItem(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Omit(clause.Associations).Create(item).Error
}
