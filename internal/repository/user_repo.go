package repository

import (
	"go-store-orders/internal/model"

	"gorm.io/gorm"
)

type StoreUserRepository interface {
	FindByUsername(tx *gorm.DB, username string) (*model.StoreUser, error)
	FindByID(tx *gorm.DB, id uint) (*model.StoreUser, error)
	Create(tx *gorm.DB, user *model.StoreUser) error
	ToggleActive(tx *gorm.DB, id uint) (bool, error)
	UpdatePassword(tx *gorm.DB, id uint, hashedPassword string, resetNeeded bool) error
	FindAll(tx *gorm.DB) ([]model.StoreUser, error)
}

type storeUserRepo struct{}

func NewStoreUserRepo() StoreUserRepository {
	return &storeUserRepo{}
}

func (r *storeUserRepo) FindByUsername(tx *gorm.DB, username string) (*model.StoreUser, error) {
	var user model.StoreUser
	if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *storeUserRepo) FindByID(tx *gorm.DB, id uint) (*model.StoreUser, error) {
	var user model.StoreUser
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *storeUserRepo) Create(tx *gorm.DB, user *model.StoreUser) error {
	return tx.Create(user).Error
}

func (r *storeUserRepo) ToggleActive(tx *gorm.DB, id uint) (bool, error) {
	res := tx.Model(&model.StoreUser{}).Where("id = ?", id).Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}
	var active bool
	err := tx.Model(&model.StoreUser{}).Select("is_active").Where("id = ?", id).Scan(&active).Error
	return active, err
}

func (r *storeUserRepo) UpdatePassword(tx *gorm.DB, id uint, hashedPassword string, resetNeeded bool) error {
	res := tx.Model(&model.StoreUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":   hashedPassword,
		"is_reset_needed": resetNeeded,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storeUserRepo) FindAll(tx *gorm.DB) ([]model.StoreUser, error) {
	var users []model.StoreUser
	if err := tx.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
