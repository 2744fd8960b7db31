package services

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

func ctxWithPrincipal(id uint64, role authz.Role) context.Context {
	return context.WithValue(context.Background(), contextkeys.PrincipalKey, &authz.Principal{ID: id, Role: role})
}

// --- заявки ---

type fakeRequestRepo struct {
	requests map[uint64]*entities.MaintenanceRequest
	nextID   uint64

	markErr  error
	clearErr error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[uint64]*entities.MaintenanceRequest{}, nextID: 1}
}

func (f *fakeRequestRepo) put(r *entities.MaintenanceRequest) *entities.MaintenanceRequest {
	if r.ID == 0 {
		r.ID = f.nextID
		f.nextID++
	} else if r.ID >= f.nextID {
		f.nextID = r.ID + 1
	}
	f.requests[r.ID] = r
	return r
}

func (f *fakeRequestRepo) snapshot() map[uint64]entities.MaintenanceRequest {
	out := make(map[uint64]entities.MaintenanceRequest, len(f.requests))
	for id, r := range f.requests {
		out[id] = *r
	}
	return out
}

func (f *fakeRequestRepo) restore(snap map[uint64]entities.MaintenanceRequest) {
	f.requests = make(map[uint64]*entities.MaintenanceRequest, len(snap))
	for id, r := range snap {
		copied := r
		f.requests[id] = &copied
	}
}

func (f *fakeRequestRepo) GetRequests(_ context.Context, filter dto.RequestFilterDTO) ([]entities.MaintenanceRequest, error) {
	var out []entities.MaintenanceRequest
	for _, r := range f.requests {
		if filter.Status.Valid && r.Status != filter.Status.String {
			continue
		}
		if filter.Overdue.Valid && r.IsOverdue != filter.Overdue.Bool {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRequestRepo) FindRequest(_ context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequestRepo) CreateRequest(_ context.Context, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	copied := *req
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	f.put(&copied)
	result := copied
	return &result, nil
}

func (f *fakeRequestRepo) UpdateTechnician(_ context.Context, id, technicianID uint64) (*entities.MaintenanceRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	r.TechnicianID = null.Uint64From(technicianID)
	copied := *r
	return &copied, nil
}

func (f *fakeRequestRepo) UpdateSchedule(_ context.Context, id uint64, date time.Time) (*entities.MaintenanceRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	r.ScheduledDate = null.TimeFrom(date)
	copied := *r
	return &copied, nil
}

func (f *fakeRequestRepo) UpdateStatusInTx(_ context.Context, _ pgx.Tx, id uint64, status string, durationHours null.Float64, expectedVersion null.Uint64) (*entities.MaintenanceRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if expectedVersion.Valid && r.Version != expectedVersion.Uint64 {
		return nil, apperrors.ErrConflict
	}
	r.Status = status
	r.DurationHours = durationHours
	r.Version++
	copied := *r
	return &copied, nil
}

func (f *fakeRequestRepo) CountOpenByEquipment(_ context.Context, equipmentID uint64) (uint64, error) {
	var n uint64
	for _, r := range f.requests {
		if r.EquipmentID == equipmentID && !constants.IsFinalStatus(r.Status) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRequestRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	if f.markErr != nil {
		return 0, f.markErr
	}
	var n int64
	for _, r := range f.requests {
		if r.Type == constants.RequestTypePreventive &&
			r.ScheduledDate.Valid && r.ScheduledDate.Time.Before(now) &&
			!constants.IsFinalStatus(r.Status) && !r.IsOverdue {
			r.IsOverdue = true
			n++
		}
	}
	return n, nil
}

func (f *fakeRequestRepo) ClearOverdue(_ context.Context, now time.Time) (int64, error) {
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	var n int64
	for _, r := range f.requests {
		if !r.IsOverdue {
			continue
		}
		stillOverdue := r.Type == constants.RequestTypePreventive &&
			r.ScheduledDate.Valid && r.ScheduledDate.Time.Before(now) &&
			!constants.IsFinalStatus(r.Status)
		if !stillOverdue {
			r.IsOverdue = false
			n++
		}
	}
	return n, nil
}

// --- оборудование ---

type fakeEquipmentRepo struct {
	equipment map[uint64]*entities.Equipment

	markUnusableErr   error
	markUnusableCalls []uint64
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipment: map[uint64]*entities.Equipment{}}
}

func (f *fakeEquipmentRepo) GetEquipment(_ context.Context, _ dto.EquipmentFilterDTO) ([]entities.Equipment, error) {
	var out []entities.Equipment
	for _, e := range f.equipment {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEquipmentRepo) FindEquipment(_ context.Context, id uint64) (*entities.Equipment, error) {
	e, ok := f.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEquipmentRepo) CreateEquipment(_ context.Context, e *entities.Equipment) (*entities.Equipment, error) {
	copied := *e
	copied.ID = uint64(len(f.equipment) + 1)
	f.equipment[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeEquipmentRepo) UpdateEquipment(_ context.Context, id uint64, _ dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	return f.FindEquipment(context.Background(), id)
}

func (f *fakeEquipmentRepo) SetArchived(_ context.Context, id uint64, archived bool, at time.Time) (*entities.Equipment, error) {
	e, ok := f.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e.IsArchived = archived
	if archived {
		e.ArchivedAt = null.TimeFrom(at)
	} else {
		e.ArchivedAt = null.Time{}
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEquipmentRepo) MarkUnusableInTx(_ context.Context, _ pgx.Tx, id uint64) error {
	f.markUnusableCalls = append(f.markUnusableCalls, id)
	if f.markUnusableErr != nil {
		return f.markUnusableErr
	}
	e, ok := f.equipment[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.IsUsable = false
	return nil
}

// --- членство ---

type fakeTeamMemberRepo struct {
	members map[[2]uint64]bool // [teamID, userID]
	err     error
	reads   int
}

func newFakeTeamMemberRepo() *fakeTeamMemberRepo {
	return &fakeTeamMemberRepo{members: map[[2]uint64]bool{}}
}

func (f *fakeTeamMemberRepo) Exists(_ context.Context, teamID, userID uint64) (bool, error) {
	f.reads++
	if f.err != nil {
		return false, f.err
	}
	return f.members[[2]uint64{teamID, userID}], nil
}

func (f *fakeTeamMemberRepo) AddMember(_ context.Context, teamID, userID uint64) error {
	f.members[[2]uint64{teamID, userID}] = true
	return nil
}

func (f *fakeTeamMemberRepo) RemoveMember(_ context.Context, teamID, userID uint64) error {
	delete(f.members, [2]uint64{teamID, userID})
	return nil
}

// --- кэш ---

type fakeCacheRepo struct {
	values map[string]string
	sets   int
	gets   int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: map[string]string{}}
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.sets++
	s, ok := value.(string)
	if !ok {
		return errors.New("unexpected value type")
	}
	f.values[key] = s
	return nil
}

func (f *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	f.gets++
	v, ok := f.values[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (f *fakeCacheRepo) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

// --- транзакции ---

// fakeTxManager моделирует атомарность: при ошибке fn состояние заявок
// откатывается к снимку до вызова.
type fakeTxManager struct {
	requests *fakeRequestRepo
}

func (f *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	snap := f.requests.snapshot()
	if err := fn(nil); err != nil {
		f.requests.restore(snap)
		return err
	}
	return nil
}

// --- прочие сервисные фейки ---

type fakeTeamAccess struct {
	members map[[2]uint64]bool // [teamID, userID]
	calls   [][2]uint64        // [userID, teamID] в порядке обращений
}

func newFakeTeamAccess() *fakeTeamAccess {
	return &fakeTeamAccess{members: map[[2]uint64]bool{}}
}

func (f *fakeTeamAccess) allow(teamID, userID uint64) {
	f.members[[2]uint64{teamID, userID}] = true
}

func (f *fakeTeamAccess) AssertMember(ctx context.Context, userID, teamID uint64) error {
	ok, _ := f.IsMember(ctx, userID, teamID)
	if !ok {
		return apperrors.ErrNotTeamMember
	}
	return nil
}

func (f *fakeTeamAccess) IsMember(_ context.Context, userID, teamID uint64) (bool, error) {
	f.calls = append(f.calls, [2]uint64{userID, teamID})
	return f.members[[2]uint64{teamID, userID}], nil
}

func (f *fakeTeamAccess) InvalidateMembership(_ context.Context, teamID, userID uint64) {
	delete(f.members, [2]uint64{teamID, userID})
}
