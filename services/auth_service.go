package services

import (
	"context"
	"errors"
	"fmt"

	"shop-api/models"
	"shop-api/repositories"
	"shop-api/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		userRepo: repositories.NewUserRepository(db),
	}
}

// Register creates an ordinary or company account. Admins cannot
// self-register.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	role := models.RoleUser
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil || parsed == models.RoleAdmin {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	user, err := s.createUser(ctx, req.Name, req.Password, role)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByName(ctx, req.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// name already exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, password string) (bool, error) {
	_, err := s.userRepo.FindByName(ctx, name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("load user: %w", err)
	}

	if _, err := s.createUser(ctx, name, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, name, password string, role models.Role) (*models.User, error) {
	existing, err := s.userRepo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, ErrNameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Password: hashedPassword,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (*models.LoginResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.LoginResponse{
		Token: token,
		User:  toUserResponse(*user),
	}, nil
}
