package service

import (
	"context"
	"strings"
	"time"

	"go-store-orders/internal/model"
	"go-store-orders/internal/repository"
	"go-store-orders/pkg/jwt"

	"gorm.io/gorm"
)

type StoreLoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type StoreLoginResponse struct {
	Status string    `json:"status"`
	User   StoreInfo `json:"user"`
}

type StoreInfo struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	IsResetNeeded bool   `json:"is_reset_needed"`
}

// TokenResponse follows the OAuth2 password-grant reply shape.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AuthService interface {
	StoreLogin(ctx context.Context, req *StoreLoginRequest) (*StoreLoginResponse, error)
	AdminLogin(ctx context.Context, username, password string) (*TokenResponse, error)
	AuthenticateAdmin(ctx context.Context, token string) (*model.AdminUser, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
	ResetAdminPassword(ctx context.Context, username, password string) error
}

type authService struct {
	txRunner
	storeRepo repository.StoreUserRepository
	adminRepo repository.AdminRepository
	tokens    *jwt.Manager
}

func NewAuthService(storeRepo repository.StoreUserRepository, adminRepo repository.AdminRepository, tokens *jwt.Manager, db *gorm.DB, timeout time.Duration) AuthService {
	return &authService{
		txRunner:  newTxRunner(db, timeout),
		storeRepo: storeRepo,
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// StoreLogin checks credentials before the active flag so a wrong password never
// reveals whether the account exists or is disabled.
func (s *authService) StoreLogin(ctx context.Context, req *StoreLoginRequest) (*StoreLoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var user *model.StoreUser
	err := s.read(ctx, func(db *gorm.DB) error {
		var err error
		user, err = s.storeRepo.FindByUsername(db, strings.TrimSpace(req.Username))
		if err != nil {
			if repository.IsNotFound(err) {
				return unauthorized("Invalid username or password")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, unauthorized("Invalid username or password")
	}
	if !user.IsActive {
		return nil, forbidden("Account is deactivated, please contact the office")
	}

	return &StoreLoginResponse{
		Status: "success",
		User: StoreInfo{
			ID:            user.ID,
			Username:      user.Username,
			DisplayName:   user.DisplayName,
			IsResetNeeded: user.IsResetNeeded,
		},
	}, nil
}

func (s *authService) AdminLogin(ctx context.Context, username, password string) (*TokenResponse, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, invalidInput("Username and password are required")
	}

	var admin *model.AdminUser
	err := s.read(ctx, func(db *gorm.DB) error {
		var err error
		admin, err = s.adminRepo.FindByUsername(db, strings.TrimSpace(username))
		if err != nil {
			if repository.IsNotFound(err) {
				return unauthorized("Incorrect username or password")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !admin.CheckPassword(password) {
		return nil, unauthorized("Incorrect username or password")
	}

	token, err := s.tokens.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return nil, internal(err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// AuthenticateAdmin verifies the token and that its admin still exists.
func (s *authService) AuthenticateAdmin(ctx context.Context, token string) (*model.AdminUser, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, unauthorized("Could not validate credentials")
	}

	var admin *model.AdminUser
	err = s.read(ctx, func(db *gorm.DB) error {
		var err error
		admin, err = s.adminRepo.FindByID(db, claims.AdminID)
		if err != nil {
			if repository.IsNotFound(err) {
				return unauthorized("Could not validate credentials")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if admin.Username != claims.Username {
		return nil, unauthorized("Could not validate credentials")
	}
	return admin, nil
}

// EnsureAdmin creates the admin account when it does not exist yet. It never
// overwrites an existing password.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return false, invalidInput("Admin bootstrap needs a username and a password of at least 8 characters")
	}

	created := false
	err := s.guarded(ctx, guardedWrite{
		Write: func(tx *gorm.DB) error {
			if _, err := s.adminRepo.FindByUsername(tx, username); err == nil {
				return nil
			} else if !repository.IsNotFound(err) {
				return err
			}
			admin := &model.AdminUser{Username: username}
			if err := admin.SetPassword(password); err != nil {
				return err
			}
			if err := s.adminRepo.Create(tx, admin); err != nil {
				return err
			}
			created = true
			return nil
		},
	})
	return created, err
}

func (s *authService) ResetAdminPassword(ctx context.Context, username, password string) error {
	if len(password) < 8 {
		return invalidInput("Password must be at least 8 characters")
	}
	return s.guarded(ctx, guardedWrite{
		Write: func(tx *gorm.DB) error {
			admin, err := s.adminRepo.FindByUsername(tx, strings.TrimSpace(username))
			if err != nil {
				if repository.IsNotFound(err) {
					return notFound("Admin '%s' not found", username)
				}
				return err
			}
			if err := admin.SetPassword(password); err != nil {
				return err
			}
			return s.adminRepo.UpdatePassword(tx, admin.ID, admin.PasswordHash)
		},
	})
}
