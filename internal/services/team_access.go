package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

const membershipCacheKey = "team:membership:%d:%d" // teamID, userID

type TeamAccessServiceInterface interface {
	// AssertMember отвечает на один вопрос: состоит ли пользователь в
	// команде. Привилегированный обход здесь сознательно отсутствует —
	// решение «пропустить проверку» принимается в одном месте, в
	// оркестраторе заявок, и не дублируется по проверкам.
	AssertMember(ctx context.Context, userID, teamID uint64) error
	IsMember(ctx context.Context, userID, teamID uint64) (bool, error)
	InvalidateMembership(ctx context.Context, teamID, userID uint64)
}

type TeamAccessService struct {
	memberRepo repositories.TeamMemberRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	logger     *zap.Logger
	cacheTTL   time.Duration
}

func NewTeamAccessService(
	memberRepo repositories.TeamMemberRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) TeamAccessServiceInterface {
	return &TeamAccessService{
		memberRepo: memberRepo,
		cacheRepo:  cacheRepo,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

func (s *TeamAccessService) AssertMember(ctx context.Context, userID, teamID uint64) error {
	ok, err := s.IsMember(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotTeamMember
	}
	return nil
}

// IsMember — cache-aside поверх Redis: кешируется только положительный
// ответ, отрицательный каждый раз перечитывается из БД, чтобы свежедобавленный
// участник не ждал истечения TTL.
func (s *TeamAccessService) IsMember(ctx context.Context, userID, teamID uint64) (bool, error) {
	key := fmt.Sprintf(membershipCacheKey, teamID, userID)

	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(ctx, key); err == nil && cached == "1" {
			return true, nil
		}
	}

	exists, err := s.memberRepo.Exists(ctx, teamID, userID)
	if err != nil {
		s.logger.Error("TeamAccessService: ошибка проверки членства",
			zap.Uint64("teamID", teamID), zap.Uint64("userID", userID), zap.Error(err))
		return false, apperrors.ErrInternalServer
	}

	if exists && s.cacheRepo != nil {
		if err := s.cacheRepo.Set(ctx, key, "1", s.cacheTTL); err != nil {
			s.logger.Warn("TeamAccessService: не удалось закешировать членство", zap.Error(err))
		}
	}
	return exists, nil
}

// InvalidateMembership вызывается при исключении участника из команды.
func (s *TeamAccessService) InvalidateMembership(ctx context.Context, teamID, userID uint64) {
	if s.cacheRepo == nil {
		return
	}
	key := fmt.Sprintf(membershipCacheKey, teamID, userID)
	if err := s.cacheRepo.Del(ctx, key); err != nil {
		s.logger.Warn("TeamAccessService: не удалось сбросить кеш членства", zap.Error(err))
	}
}
