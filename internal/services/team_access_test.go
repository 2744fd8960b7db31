package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "maintenance-system/pkg/errors"
)

func TestTeamAccessService(t *testing.T) {
	ctx := context.Background()

	t.Run("участник проходит, чужой получает отказ", func(t *testing.T) {
		members := newFakeTeamMemberRepo()
		members.members[[2]uint64{10, 7}] = true
		svc := NewTeamAccessService(members, newFakeCacheRepo(), zap.NewNop(), time.Minute)

		assert.NoError(t, svc.AssertMember(ctx, 7, 10))
		assert.ErrorIs(t, svc.AssertMember(ctx, 8, 10), apperrors.ErrNotTeamMember)
	})

	t.Run("положительный ответ кешируется", func(t *testing.T) {
		members := newFakeTeamMemberRepo()
		members.members[[2]uint64{10, 7}] = true
		cache := newFakeCacheRepo()
		svc := NewTeamAccessService(members, cache, zap.NewNop(), time.Minute)

		require.NoError(t, svc.AssertMember(ctx, 7, 10))
		require.NoError(t, svc.AssertMember(ctx, 7, 10))

		assert.Equal(t, 1, members.reads)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("отрицательный ответ не кешируется", func(t *testing.T) {
		members := newFakeTeamMemberRepo()
		cache := newFakeCacheRepo()
		svc := NewTeamAccessService(members, cache, zap.NewNop(), time.Minute)

		assert.ErrorIs(t, svc.AssertMember(ctx, 7, 10), apperrors.ErrNotTeamMember)

		// Свежедобавленный участник проходит сразу, не дожидаясь TTL.
		members.members[[2]uint64{10, 7}] = true
		assert.NoError(t, svc.AssertMember(ctx, 7, 10))
		assert.Equal(t, 2, members.reads)
	})

	t.Run("инвалидация выбрасывает запись из кэша", func(t *testing.T) {
		members := newFakeTeamMemberRepo()
		members.members[[2]uint64{10, 7}] = true
		cache := newFakeCacheRepo()
		svc := NewTeamAccessService(members, cache, zap.NewNop(), time.Minute)

		require.NoError(t, svc.AssertMember(ctx, 7, 10))

		delete(members.members, [2]uint64{10, 7})
		svc.InvalidateMembership(ctx, 10, 7)

		assert.ErrorIs(t, svc.AssertMember(ctx, 7, 10), apperrors.ErrNotTeamMember)
	})

	t.Run("без кэша работает напрямую через БД", func(t *testing.T) {
		members := newFakeTeamMemberRepo()
		members.members[[2]uint64{10, 7}] = true
		svc := NewTeamAccessService(members, nil, zap.NewNop(), time.Minute)

		assert.NoError(t, svc.AssertMember(ctx, 7, 10))
	})
}
