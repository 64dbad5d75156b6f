package services

import (
	"context"
	"errors"
	"fmt"

	"shop-api/models"
	"shop-api/repositories"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userRepo: repositories.NewUserRepository(db),
	}
}

// GetAllUsers lists every user with the password blanked out.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	return result, nil
}

// DeleteUser removes targetID if the caller is that user or an admin.
func (s *UserService) DeleteUser(ctx context.Context, callerID int, callerRole models.Role, targetID int) error {
	user, err := s.userRepo.FindByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if callerID != user.ID && callerRole != models.RoleAdmin {
		return ErrForbidden
	}

	err = s.userRepo.Delete(ctx, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func toUserResponse(u models.User) models.UserResponse {
	return models.UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Password: "",
		Role:     u.Role,
	}
}
