package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

// MaintenanceRequest — заявка на обслуживание.
//
// TeamID и EquipmentCategory — снимки с оборудования на момент создания и
// дальше не меняются, даже если оборудование переназначат: отчётность
// должна видеть категорию, с которой заявка открывалась.
// IsOverdue принадлежит фоновому процессу (OverdueService) и напрямую
// пользователями не выставляется.
type MaintenanceRequest struct {
	ID                uint64       `json:"id"`
	Type              string       `json:"type"`
	Subject           string       `json:"subject"`
	Status            string       `json:"status"`
	EquipmentID       uint64       `json:"equipment_id"`
	TeamID            uint64       `json:"team_id"`
	TechnicianID      null.Uint64  `json:"technician_id"`
	EquipmentCategory null.String  `json:"equipment_category"`
	ScheduledDate     null.Time    `json:"scheduled_date"`
	DurationHours     null.Float64 `json:"duration_hours"`
	IsOverdue         bool         `json:"is_overdue"`
	CreatedByUserID   uint64       `json:"created_by_user_id"`
	Version           uint64       `json:"version"`

	types.BaseEntity

	// Связанные данные (не колонки таблицы)
	Equipment  *Equipment `json:"equipment,omitempty" db:"-"`
	Team       *Team      `json:"team,omitempty" db:"-"`
	Technician *User      `json:"technician,omitempty" db:"-"`
}
