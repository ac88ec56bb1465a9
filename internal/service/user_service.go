package service

import (
	"context"
	"strings"
	"time"

	"go-store-orders/internal/model"
	"go-store-orders/internal/repository"

	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Username    string `json:"username" validate:"notblank,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name" validate:"notblank,max=255"`
}

type ChangePasswordRequest struct {
	Username    string `json:"username" validate:"notblank"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*WriteResult, error)
	GetAllUsers(ctx context.Context) ([]model.StoreUserResponse, error)
	ToggleUser(ctx context.Context, id uint) (*WriteResult, error)
	ResetPassword(ctx context.Context, id uint) (*WriteResult, error)
	ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*WriteResult, error)
}

type userService struct {
	txRunner
	userRepo        repository.StoreUserRepository
	defaultPassword string
}

func NewUserService(userRepo repository.StoreUserRepository, db *gorm.DB, defaultPassword string, timeout time.Duration) UserService {
	return &userService{
		txRunner:        newTxRunner(db, timeout),
		userRepo:        userRepo,
		defaultPassword: defaultPassword,
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*WriteResult, error) {
	user := &model.StoreUser{
		Username:    strings.TrimSpace(req.Username),
		DisplayName: strings.TrimSpace(req.DisplayName),
		IsActive:    true,
	}

	err := s.guarded(ctx, guardedWrite{
		Input: req,
		Check: func(tx *gorm.DB) error {
			if _, err := s.userRepo.FindByUsername(tx, user.Username); err == nil {
				return conflict("Username '%s' is already taken", user.Username)
			} else if !repository.IsNotFound(err) {
				return err
			}
			return nil
		},
		Write: func(tx *gorm.DB) error {
			if err := user.SetPassword(req.Password); err != nil {
				return err
			}
			if err := s.userRepo.Create(tx, user); err != nil {
				if repository.IsUniqueViolation(err) {
					return conflict("Username '%s' is already taken", user.Username)
				}
				return err
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	res := success("Created user: %s", user.DisplayName)
	res.ID = user.ID
	return res, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.StoreUserResponse, error) {
	var users []model.StoreUser
	err := s.read(ctx, func(db *gorm.DB) (err error) {
		users, err = s.userRepo.FindAll(db)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.StoreUserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, nil
}

func (s *userService) ToggleUser(ctx context.Context, id uint) (*WriteResult, error) {
	var (
		user   *model.StoreUser
		active bool
	)
	err := s.guarded(ctx, guardedWrite{
		Check: func(tx *gorm.DB) (err error) {
			user, err = s.findUser(tx, id)
			return err
		},
		Write: func(tx *gorm.DB) (err error) {
			active, err = s.userRepo.ToggleActive(tx, id)
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	res := success("User '%s' %s", user.Username, activeWord(active))
	res.ID = id
	res.IsActive = &active
	return res, nil
}

// ResetPassword restores the configured default password and forces a change on next use.
func (s *userService) ResetPassword(ctx context.Context, id uint) (*WriteResult, error) {
	var user *model.StoreUser
	err := s.guarded(ctx, guardedWrite{
		Check: func(tx *gorm.DB) (err error) {
			user, err = s.findUser(tx, id)
			return err
		},
		Write: func(tx *gorm.DB) error {
			if err := user.SetPassword(s.defaultPassword); err != nil {
				return err
			}
			return s.userRepo.UpdatePassword(tx, id, user.PasswordHash, true)
		},
	})
	if err != nil {
		return nil, err
	}

	res := success("Password for '%s' has been reset to the default", user.Username)
	res.ID = id
	return res, nil
}

func (s *userService) ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*WriteResult, error) {
	var user *model.StoreUser
	err := s.guarded(ctx, guardedWrite{
		Input: req,
		Check: func(tx *gorm.DB) error {
			var err error
			user, err = s.userRepo.FindByUsername(tx, strings.TrimSpace(req.Username))
			if err != nil {
				if repository.IsNotFound(err) {
					return unauthorized("Invalid username or password")
				}
				return err
			}
			if !user.CheckPassword(req.OldPassword) {
				return unauthorized("Invalid username or password")
			}
			if !user.IsActive {
				return forbidden("Account is deactivated")
			}
			if req.NewPassword == req.OldPassword {
				return invalidInput("New password must differ from the old one")
			}
			return nil
		},
		Write: func(tx *gorm.DB) error {
			if err := user.SetPassword(req.NewPassword); err != nil {
				return err
			}
			return s.userRepo.UpdatePassword(tx, user.ID, user.PasswordHash, false)
		},
	})
	if err != nil {
		return nil, err
	}

	return success("Password updated"), nil
}

func (s *userService) findUser(tx *gorm.DB, id uint) (*model.StoreUser, error) {
	user, err := s.userRepo.FindByID(tx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("User %d not found", id)
		}
		return nil, err
	}
	return user, nil
}
