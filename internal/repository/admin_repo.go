package repository

import (
	"go-store-orders/internal/model"

	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByUsername(tx *gorm.DB, username string) (*model.AdminUser, error)
	FindByID(tx *gorm.DB, id uint) (*model.AdminUser, error)
	Create(tx *gorm.DB, admin *model.AdminUser) error
	UpdatePassword(tx *gorm.DB, id uint, hashedPassword string) error
}

type adminRepo struct{}

func NewAdminRepo() AdminRepository {
	return &adminRepo{}
}

func (r *adminRepo) FindByUsername(tx *gorm.DB, username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := tx.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindByID(tx *gorm.DB, id uint) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := tx.First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Create(tx *gorm.DB, admin *model.AdminUser) error {
	return tx.Create(admin).Error
}

func (r *adminRepo) UpdatePassword(tx *gorm.DB, id uint, hashedPassword string) error {
	return tx.Model(&model.AdminUser{}).Where("id = ?", id).Update("password_hash", hashedPassword).Error
}
