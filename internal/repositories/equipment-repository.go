package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

const equipmentTable = "equipment"
const equipmentFields = "id, name, serial_number, category, purchase_date, warranty_info, warranty_expires_at, " +
	"location, department_id, maintenance_team_id, default_technician_id, is_usable, is_archived, archived_at, " +
	"created_at, updated_at"

type EquipmentRepositoryInterface interface {
	GetEquipment(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, e *entities.Equipment) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, patch dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	SetArchived(ctx context.Context, id uint64, archived bool, at time.Time) (*entities.Equipment, error)
	// MarkUnusableInTx — каскад SCRAP, выполняется в одной транзакции со
	// сменой статуса заявки.
	MarkUnusableInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.PurchaseDate, &e.WarrantyInfo, &e.WarrantyExpiresAt,
		&e.Location, &e.DepartmentID, &e.MaintenanceTeamID, &e.DefaultTechnicianID, &e.IsUsable, &e.IsArchived,
		&e.ArchivedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, error) {
	builder := psql.Select(equipmentFields).From(equipmentTable).OrderBy("id ASC")

	if filter.DepartmentID.Valid {
		builder = builder.Where(sq.Eq{"department_id": filter.DepartmentID.Uint64})
	}
	if filter.TeamID.Valid {
		builder = builder.Where(sq.Eq{"maintenance_team_id": filter.TeamID.Uint64})
	}
	if filter.Archived.Valid {
		builder = builder.Where(sq.Eq{"is_archived": filter.Archived.Bool})
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

	var items []entities.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentFields, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, e *entities.Equipment) (*entities.Equipment, error) {
	query, args, err := psql.Insert(equipmentTable).
		Columns("name", "serial_number", "category", "purchase_date", "warranty_info", "warranty_expires_at",
			"location", "department_id", "maintenance_team_id", "default_technician_id").
		Values(e.Name, e.SerialNumber, e.Category, e.PurchaseDate, e.WarrantyInfo, e.WarrantyExpiresAt,
			e.Location, e.DepartmentID, e.MaintenanceTeamID, e.DefaultTechnicianID).
		Suffix("RETURNING " + equipmentFields).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(r.storage.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id uint64, patch dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	builder := psql.Update(equipmentTable).Set("updated_at", sq.Expr("NOW()"))

	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.SerialNumber != nil {
		builder = builder.Set("serial_number", *patch.SerialNumber)
	}
	if patch.Category != nil {
		builder = builder.Set("category", *patch.Category)
	}
	if patch.PurchaseDate != nil {
		builder = builder.Set("purchase_date", *patch.PurchaseDate)
	}
	if patch.WarrantyInfo != nil {
		builder = builder.Set("warranty_info", *patch.WarrantyInfo)
	}
	if patch.WarrantyExpiresAt != nil {
		builder = builder.Set("warranty_expires_at", *patch.WarrantyExpiresAt)
	}
	if patch.Location != nil {
		builder = builder.Set("location", *patch.Location)
	}
	if patch.DepartmentID != nil {
		builder = builder.Set("department_id", *patch.DepartmentID)
	}
	if patch.MaintenanceTeamID != nil {
		builder = builder.Set("maintenance_team_id", *patch.MaintenanceTeamID)
	}
	if patch.DefaultTechnicianID != nil {
		builder = builder.Set("default_technician_id", *patch.DefaultTechnicianID)
	}
	if patch.IsUsable != nil {
		builder = builder.Set("is_usable", *patch.IsUsable)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + equipmentFields).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(r.storage.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) SetArchived(ctx context.Context, id uint64, archived bool, at time.Time) (*entities.Equipment, error) {
	builder := psql.Update(equipmentTable).
		Set("is_archived", archived).
		Set("updated_at", sq.Expr("NOW()"))
	if archived {
		builder = builder.Set("archived_at", at)
	} else {
		builder = builder.Set("archived_at", nil)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + equipmentFields).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(r.storage.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) MarkUnusableInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx, "UPDATE equipment SET is_usable = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка каскадного списания оборудования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
