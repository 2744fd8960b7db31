package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"maintenance-system/internal/repositories"
)

type OverdueServiceInterface interface {
	RunSweep(ctx context.Context, now time.Time)
}

// OverdueService — фоновый пересчёт флага is_overdue по плановым заявкам.
// Флаг целиком принадлежит этому сервису: ручные операции его не меняют,
// каждый проход сходится к корректному состоянию независимо от предыдущих.
type OverdueService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewOverdueService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) OverdueServiceInterface {
	return &OverdueService{requestRepo: requestRepo, logger: logger}
}

// RunSweep выполняет две фазы: поднимает флаг у просроченных открытых
// PREVENTIVE-заявок, затем снимает у тех, где предикат перестал выполняться
// (дата перенесена вперёд, заявка закрыта). Ошибки логируются и не
// прерывают работу планировщика; фазы независимы.
func (s *OverdueService) RunSweep(ctx context.Context, now time.Time) {
	marked, err := s.requestRepo.MarkOverdue(ctx, now)
	if err != nil {
		s.logger.Error("OverdueService: ошибка фазы пометки", zap.Error(err))
	} else if marked > 0 {
		s.logger.Info("OverdueService: заявки помечены просроченными", zap.Int64("count", marked))
	}

	cleared, err := s.requestRepo.ClearOverdue(ctx, now)
	if err != nil {
		s.logger.Error("OverdueService: ошибка фазы снятия", zap.Error(err))
	} else if cleared > 0 {
		s.logger.Info("OverdueService: флаг просрочки снят", zap.Int64("count", cleared))
	}
}
