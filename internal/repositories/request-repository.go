package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

const requestTable = "requests"
const requestFields = "id, type, subject, status, equipment_id, team_id, technician_id, equipment_category, " +
	"scheduled_date, duration_hours, is_overdue, created_by_user_id, version, created_at, updated_at"

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.MaintenanceRequest, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error)
	UpdateTechnician(ctx context.Context, id, technicianID uint64) (*entities.MaintenanceRequest, error)
	UpdateSchedule(ctx context.Context, id uint64, date time.Time) (*entities.MaintenanceRequest, error)
	// UpdateStatusInTx меняет статус (и duration_hours для REPAIRED) в рамках
	// переданной транзакции. При валидной expectedVersion устаревшая запись
	// отклоняется с ErrConflict.
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, durationHours null.Float64, expectedVersion null.Uint64) (*entities.MaintenanceRequest, error)
	CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error)

	// Двухфазная разметка просрочки. Оба апдейта массовые (set-based) и
	// идемпотентные; момент времени передаётся снаружи.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	ClearOverdue(ctx context.Context, now time.Time) (int64, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

func scanRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var m entities.MaintenanceRequest
	err := row.Scan(
		&m.ID, &m.Type, &m.Subject, &m.Status, &m.EquipmentID, &m.TeamID, &m.TechnicianID, &m.EquipmentCategory,
		&m.ScheduledDate, &m.DurationHours, &m.IsOverdue, &m.CreatedByUserID, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования request: %w", err)
	}
	return &m, nil
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.MaintenanceRequest, error) {
	builder := psql.Select(requestFields).From(requestTable).
		OrderBy("updated_at DESC", "id DESC")

	if filter.Type.Valid {
		builder = builder.Where(sq.Eq{"type": filter.Type.String})
	}
	if filter.Status.Valid {
		builder = builder.Where(sq.Eq{"status": filter.Status.String})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.TeamID.Valid {
		builder = builder.Where(sq.Eq{"team_id": filter.TeamID.Uint64})
	}
	if filter.EquipmentID.Valid {
		builder = builder.Where(sq.Eq{"equipment_id": filter.EquipmentID.Uint64})
	}
	if filter.TechnicianID.Valid {
		builder = builder.Where(sq.Eq{"technician_id": filter.TechnicianID.Uint64})
	}
	if filter.Overdue.Valid {
		builder = builder.Where(sq.Eq{"is_overdue": filter.Overdue.Bool})
	}
	if filter.Calendar {
		builder = builder.
			Where(sq.Eq{"type": constants.RequestTypePreventive}).
			Where(sq.NotEq{"scheduled_date": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []entities.MaintenanceRequest
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *m)
	}
	return requests, rows.Err()
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	return r.findRequest(ctx, r.storage, id)
}

func (r *RequestRepository) findRequest(ctx context.Context, q querier, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", requestFields, requestTable)
	return scanRequest(q.QueryRow(ctx, query, id))
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Insert(requestTable).
		Columns("type", "subject", "status", "equipment_id", "team_id", "technician_id",
			"equipment_category", "scheduled_date", "created_by_user_id").
		Values(req.Type, req.Subject, req.Status, req.EquipmentID, req.TeamID, req.TechnicianID,
			req.EquipmentCategory, req.ScheduledDate, req.CreatedByUserID).
		Suffix("RETURNING " + requestFields).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(r.storage.QueryRow(ctx, query, args...))
}

func (r *RequestRepository) UpdateTechnician(ctx context.Context, id, technicianID uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(
		"UPDATE %s SET technician_id = $1, updated_at = NOW() WHERE id = $2 RETURNING %s",
		requestTable, requestFields,
	)
	return scanRequest(r.storage.QueryRow(ctx, query, technicianID, id))
}

func (r *RequestRepository) UpdateSchedule(ctx context.Context, id uint64, date time.Time) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(
		"UPDATE %s SET scheduled_date = $1, updated_at = NOW() WHERE id = $2 RETURNING %s",
		requestTable, requestFields,
	)
	return scanRequest(r.storage.QueryRow(ctx, query, date, id))
}

func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, durationHours null.Float64, expectedVersion null.Uint64) (*entities.MaintenanceRequest, error) {
	builder := psql.Update(requestTable).
		Set("status", status).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	if durationHours.Valid {
		builder = builder.Set("duration_hours", durationHours)
	}
	if expectedVersion.Valid {
		builder = builder.Where(sq.Eq{"version": expectedVersion.Uint64})
	}

	query, args, err := builder.Suffix("RETURNING " + requestFields).ToSql()
	if err != nil {
		return nil, err
	}

	updated, err := scanRequest(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) && expectedVersion.Valid {
		// строка есть, но версия ушла вперёд — это конфликт, а не 404
		if _, findErr := r.findRequest(ctx, tx, id); findErr == nil {
			return nil, apperrors.ErrConflict
		} else if !errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, findErr
		}
		return nil, apperrors.ErrNotFound
	}
	return updated, err
}

func (r *RequestRepository) CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(*) FROM requests WHERE equipment_id = $1 AND status IN ($2, $3)",
		equipmentID, constants.StatusNew, constants.StatusInProgress,
	).Scan(&total)
	return total, err
}

// MarkOverdue — фаза 1 обхода: PREVENTIVE с датой строго в прошлом и
// незавершённым статусом помечаются просроченными.
func (r *RequestRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psql.Update(requestTable).
		Set("is_overdue", true).
		Where(sq.Eq{"type": constants.RequestTypePreventive}).
		Where(sq.NotEq{"scheduled_date": nil}).
		Where(sq.Lt{"scheduled_date": now}).
		Where(sq.Eq{"status": []string{constants.StatusNew, constants.StatusInProgress}}).
		Where(sq.Eq{"is_overdue": false}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ClearOverdue — фаза 2: снимает флаг со всего, что под условия фазы 1 не
// попадает. Ограничено строками с выставленным флагом (идемпотентный сброс).
func (r *RequestRepository) ClearOverdue(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psql.Update(requestTable).
		Set("is_overdue", false).
		Where(sq.Eq{"is_overdue": true}).
		Where(sq.Or{
			sq.NotEq{"type": constants.RequestTypePreventive},
			sq.Eq{"scheduled_date": nil},
			sq.GtOrEq{"scheduled_date": now},
			sq.Eq{"status": []string{constants.StatusRepaired, constants.StatusScrap}},
		}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
