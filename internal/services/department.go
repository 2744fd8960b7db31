package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"
)

type DepartmentServiceInterface interface {
	GetDepartments(ctx context.Context) ([]entities.Department, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	CreateDepartment(ctx context.Context, data dto.CreateDepartmentDTO) (*entities.Department, error)
}

type DepartmentService struct {
	departmentRepo repositories.DepartmentRepositoryInterface
}

func NewDepartmentService(departmentRepo repositories.DepartmentRepositoryInterface) DepartmentServiceInterface {
	return &DepartmentService{departmentRepo: departmentRepo}
}

func (s *DepartmentService) GetDepartments(ctx context.Context) ([]entities.Department, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.departmentRepo.GetDepartments(ctx)
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.departmentRepo.FindDepartment(ctx, id)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, data dto.CreateDepartmentDTO) (*entities.Department, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
		return nil, err
	}
	return s.departmentRepo.CreateDepartment(ctx, data.Name)
}
