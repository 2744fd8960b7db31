package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.MaintenanceRequest, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*entities.MaintenanceRequest, error)
	AssignTechnician(ctx context.Context, id uint64, data dto.AssignTechnicianDTO) (*entities.MaintenanceRequest, error)
	TransitionStatus(ctx context.Context, id uint64, data dto.TransitionStatusDTO) (*entities.MaintenanceRequest, error)
	ScheduleRequest(ctx context.Context, id uint64, data dto.ScheduleRequestDTO) (*entities.MaintenanceRequest, error)
}

// RequestService — оркестратор заявок: авторизация, валидация, мутация.
// Порядок проверок фиксирован: аутентификация -> загрузка -> членство в
// команде -> машина состояний -> предусловия -> запись.
type RequestService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamAccess    TeamAccessServiceInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
	cfg           config.RequestsConfig
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamAccess TeamAccessServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
	cfg config.RequestsConfig,
) RequestServiceInterface {
	return &RequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		teamAccess:    teamAccess,
		txManager:     txManager,
		logger:        logger,
		cfg:           cfg,
	}
}

func (s *RequestService) GetRequests(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.MaintenanceRequest, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.requestRepo.GetRequests(ctx, filter)
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*entities.MaintenanceRequest, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, data.EquipmentID)
	if err != nil {
		return nil, err
	}

	if !equipment.AcceptsRequests() {
		switch {
		case !equipment.IsUsable:
			return nil, apperrors.NewInvalidStateError("оборудование непригодно к использованию")
		case equipment.IsArchived:
			return nil, apperrors.NewInvalidStateError("оборудование в архиве")
		default:
			return nil, apperrors.NewInvalidStateError("за оборудованием не закреплена команда обслуживания")
		}
	}

	// Дата планируется только у профилактики; для аварийной заявки
	// переданная дата молча отбрасывается.
	scheduledDate := null.Time{}
	if data.Type == constants.RequestTypePreventive {
		scheduledDate = data.ScheduledDate
	}

	req := &entities.MaintenanceRequest{
		Type:              data.Type,
		Subject:           data.Subject,
		Status:            constants.StatusNew,
		EquipmentID:       equipment.ID,
		TeamID:            equipment.MaintenanceTeamID.Uint64,
		TechnicianID:      equipment.DefaultTechnicianID,
		EquipmentCategory: equipment.Category, // снимок на момент создания
		ScheduledDate:     scheduledDate,
		CreatedByUserID:   principal.ID,
	}

	created, err := s.requestRepo.CreateRequest(ctx, req)
	if err != nil {
		s.logger.Error("RequestService: ошибка создания заявки", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *RequestService) AssignTechnician(ctx context.Context, id uint64, data dto.AssignTechnicianDTO) (*entities.MaintenanceRequest, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	// Без явного ID — «назначить меня».
	technicianID := principal.ID
	if data.TechnicianID.Valid {
		technicianID = data.TechnicianID.Uint64
	}

	// Непривилегированный может назначить только участника команды заявки.
	// Проверяется назначаемый техник, не вызывающий: привилегированный
	// назначает кого угодно, остальные — только по членству цели.
	if !authz.IsPrivileged(principal) {
		if err := s.teamAccess.AssertMember(ctx, technicianID, request.TeamID); err != nil {
			return nil, err
		}
	}

	return s.requestRepo.UpdateTechnician(ctx, id, technicianID)
}

func (s *RequestService) TransitionStatus(ctx context.Context, id uint64, data dto.TransitionStatusDTO) (*entities.MaintenanceRequest, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.assertTeamGate(ctx, principal, request); err != nil {
		return nil, err
	}

	if err := AssertValidTransition(request.Status, data.Status); err != nil {
		return nil, err
	}

	if data.Status == constants.StatusInProgress && !request.TechnicianID.Valid {
		return nil, apperrors.NewInvalidStateError("назначьте техника перед переводом в IN_PROGRESS")
	}

	// duration_hours передаётся тогда и только тогда, когда цель — REPAIRED.
	if data.Status != constants.StatusRepaired && data.DurationHours.Valid {
		return nil, apperrors.NewValidationError("duration_hours допустим только при переводе в REPAIRED")
	}
	if data.Status == constants.StatusRepaired && !data.DurationHours.Valid {
		return nil, apperrors.NewValidationError("duration_hours обязателен при переводе в REPAIRED")
	}

	expectedVersion := null.Uint64{}
	if s.cfg.OptimisticLocking {
		if !data.Version.Valid {
			return nil, apperrors.NewValidationError("version обязателен: включён контроль конкурентных изменений")
		}
		expectedVersion = data.Version
	}

	// Смена статуса и каскад по оборудованию — одна атомарная единица:
	// читатель видит либо оба изменения, либо ни одного.
	var updated *entities.MaintenanceRequest
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var txErr error
		updated, txErr = s.requestRepo.UpdateStatusInTx(ctx, tx, id, data.Status, data.DurationHours, expectedVersion)
		if txErr != nil {
			return txErr
		}
		if data.Status == constants.StatusScrap {
			return s.equipmentRepo.MarkUnusableInTx(ctx, tx, request.EquipmentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RequestService) ScheduleRequest(ctx context.Context, id uint64, data dto.ScheduleRequestDTO) (*entities.MaintenanceRequest, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Type != constants.RequestTypePreventive {
		return nil, apperrors.NewInvalidStateError("планировать можно только PREVENTIVE-заявки")
	}

	if err := s.assertTeamGate(ctx, principal, request); err != nil {
		return nil, err
	}

	// is_overdue здесь сознательно не трогаем: флаг пересчитает
	// OverdueService на ближайшем проходе.
	return s.requestRepo.UpdateSchedule(ctx, id, data.ScheduledDate.Time)
}

// assertTeamGate — проверка членства при смене статуса и переносе даты.
// Исторически проверяется назначенный техник (если он есть), а не вызывающий:
// участник команды может действовать по чужой назначенной заявке, потому что
// назначенный состоит в команде. Поведение сохранено как наблюдаемое;
// REQUESTS_CHECK_CALLER_MEMBERSHIP переключает проверку на вызывающего.
func (s *RequestService) assertTeamGate(ctx context.Context, principal *authz.Principal, request *entities.MaintenanceRequest) error {
	if authz.IsPrivileged(principal) {
		return nil
	}

	actingUserID := principal.ID
	if !s.cfg.CheckCallerMembership && request.TechnicianID.Valid {
		actingUserID = request.TechnicianID.Uint64
	}

	return s.teamAccess.AssertMember(ctx, actingUserID, request.TeamID)
}
