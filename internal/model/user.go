package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// StoreUser is a front-of-house account used by a store to place orders.
type StoreUser struct {
	BaseModel
	Username      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash  string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	DisplayName   string `gorm:"type:varchar(255)" json:"display_name"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
	IsResetNeeded bool   `gorm:"not null;default:false" json:"is_reset_needed"`
}

// AdminUser is a back-office account that receives bearer tokens.
type AdminUser struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetPassword hashes and sets the user's password
func (u *StoreUser) SetPassword(password string) error {
	h, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *StoreUser) CheckPassword(password string) bool {
	return checkPassword(u.PasswordHash, password)
}

func (u *AdminUser) SetPassword(password string) error {
	h, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

func (u *AdminUser) CheckPassword(password string) bool {
	return checkPassword(u.PasswordHash, password)
}

// StoreUserResponse is used for API responses (without sensitive data)
type StoreUserResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	IsActive      bool      `json:"is_active"`
	IsResetNeeded bool      `json:"is_reset_needed"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts StoreUser to StoreUserResponse
func (u *StoreUser) ToResponse() StoreUserResponse {
	return StoreUserResponse{
		ID:            u.ID,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		IsActive:      u.IsActive,
		IsResetNeeded: u.IsResetNeeded,
		CreatedAt:     u.CreatedAt,
	}
}
