package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]dto.UserDTO, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
}

func NewUserService(userRepo repositories.UserRepositoryInterface) UserServiceInterface {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUsers(ctx context.Context) ([]dto.UserDTO, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserDTOs(users), nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	// Свою карточку видит каждый, чужие — только ADMIN и MANAGER.
	if principal.ID != id {
		if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	userDTO := dto.NewUserDTO(user)
	return &userDTO, nil
}
