package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
)

func TestOverdueSweep(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := null.TimeFrom(now.Add(-48 * time.Hour))
	future := null.TimeFrom(now.Add(48 * time.Hour))

	seed := func(repo *fakeRequestRepo, mutate func(*entities.MaintenanceRequest)) *entities.MaintenanceRequest {
		r := &entities.MaintenanceRequest{
			Type:        constants.RequestTypePreventive,
			Subject:     "ТО",
			Status:      constants.StatusNew,
			EquipmentID: 1,
			TeamID:      10,
		}
		mutate(r)
		return repo.put(r)
	}

	t.Run("помечаются только просроченные открытые PREVENTIVE", func(t *testing.T) {
		repo := newFakeRequestRepo()
		overdue := seed(repo, func(r *entities.MaintenanceRequest) { r.ScheduledDate = past })
		upcoming := seed(repo, func(r *entities.MaintenanceRequest) { r.ScheduledDate = future })
		noDate := seed(repo, func(r *entities.MaintenanceRequest) {})
		closed := seed(repo, func(r *entities.MaintenanceRequest) {
			r.ScheduledDate = past
			r.Status = constants.StatusRepaired
		})
		corrective := seed(repo, func(r *entities.MaintenanceRequest) {
			r.Type = constants.RequestTypeCorrective
			r.ScheduledDate = past
		})

		NewOverdueService(repo, zap.NewNop()).RunSweep(context.Background(), now)

		assert.True(t, repo.requests[overdue.ID].IsOverdue)
		assert.False(t, repo.requests[upcoming.ID].IsOverdue)
		assert.False(t, repo.requests[noDate.ID].IsOverdue)
		assert.False(t, repo.requests[closed.ID].IsOverdue)
		assert.False(t, repo.requests[corrective.ID].IsOverdue)
	})

	t.Run("флаг снимается после переноса даты или закрытия", func(t *testing.T) {
		repo := newFakeRequestRepo()
		rescheduled := seed(repo, func(r *entities.MaintenanceRequest) {
			r.ScheduledDate = future
			r.IsOverdue = true
		})
		repaired := seed(repo, func(r *entities.MaintenanceRequest) {
			r.ScheduledDate = past
			r.Status = constants.StatusRepaired
			r.IsOverdue = true
		})
		stillOverdue := seed(repo, func(r *entities.MaintenanceRequest) {
			r.ScheduledDate = past
			r.Status = constants.StatusInProgress
			r.IsOverdue = true
		})

		NewOverdueService(repo, zap.NewNop()).RunSweep(context.Background(), now)

		assert.False(t, repo.requests[rescheduled.ID].IsOverdue)
		assert.False(t, repo.requests[repaired.ID].IsOverdue)
		assert.True(t, repo.requests[stillOverdue.ID].IsOverdue)
	})

	t.Run("повторный проход ничего не меняет", func(t *testing.T) {
		repo := newFakeRequestRepo()
		r := seed(repo, func(r *entities.MaintenanceRequest) { r.ScheduledDate = past })
		svc := NewOverdueService(repo, zap.NewNop())

		svc.RunSweep(context.Background(), now)
		first := *repo.requests[r.ID]
		svc.RunSweep(context.Background(), now)

		assert.Equal(t, first, *repo.requests[r.ID])
	})

	t.Run("ошибка первой фазы не мешает второй", func(t *testing.T) {
		repo := newFakeRequestRepo()
		rescheduled := seed(repo, func(r *entities.MaintenanceRequest) {
			r.ScheduledDate = future
			r.IsOverdue = true
		})
		repo.markErr = errors.New("connection reset")

		require.NotPanics(t, func() {
			NewOverdueService(repo, zap.NewNop()).RunSweep(context.Background(), now)
		})
		assert.False(t, repo.requests[rescheduled.ID].IsOverdue)
	})
}
