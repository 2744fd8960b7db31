package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipment(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, patch dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	SetArchived(ctx context.Context, id uint64, data dto.ArchiveEquipmentDTO) (*entities.Equipment, error)
	GetMaintenanceCount(ctx context.Context, id uint64) (*dto.MaintenanceCountDTO, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{equipmentRepo: equipmentRepo, requestRepo: requestRepo, logger: logger}
}

func (s *EquipmentService) GetEquipment(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.equipmentRepo.GetEquipment(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	if err := s.requirePrivileged(ctx); err != nil {
		return nil, err
	}

	e := &entities.Equipment{
		Name:                data.Name,
		SerialNumber:        data.SerialNumber,
		Category:            data.Category,
		PurchaseDate:        data.PurchaseDate,
		WarrantyInfo:        data.WarrantyInfo,
		WarrantyExpiresAt:   data.WarrantyExpiresAt,
		Location:            data.Location,
		DepartmentID:        data.DepartmentID,
		MaintenanceTeamID:   data.MaintenanceTeamID,
		DefaultTechnicianID: data.DefaultTechnicianID,
		IsUsable:            true,
	}
	return s.equipmentRepo.CreateEquipment(ctx, e)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, patch dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	if err := s.requirePrivileged(ctx); err != nil {
		return nil, err
	}
	return s.equipmentRepo.UpdateEquipment(ctx, id, patch)
}

// SetArchived переводит карточку в архив и обратно. Архивная единица не
// принимает новые заявки, уже открытые продолжают жить своей жизнью.
func (s *EquipmentService) SetArchived(ctx context.Context, id uint64, data dto.ArchiveEquipmentDTO) (*entities.Equipment, error) {
	if err := s.requirePrivileged(ctx); err != nil {
		return nil, err
	}
	return s.equipmentRepo.SetArchived(ctx, id, *data.Archived, time.Now())
}

func (s *EquipmentService) GetMaintenanceCount(ctx context.Context, id uint64) (*dto.MaintenanceCountDTO, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}

	if _, err := s.equipmentRepo.FindEquipment(ctx, id); err != nil {
		return nil, err
	}

	count, err := s.requestRepo.CountOpenByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.MaintenanceCountDTO{EquipmentID: id, OpenCount: count}, nil
}

func (s *EquipmentService) requirePrivileged(ctx context.Context) error {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return err
	}
	return authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager)
}
