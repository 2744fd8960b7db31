package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

type Equipment struct {
	ID                  uint64      `json:"id"`
	Name                string      `json:"name"`
	SerialNumber        null.String `json:"serial_number"`
	Category            null.String `json:"category"`
	PurchaseDate        null.Time   `json:"purchase_date"`
	WarrantyInfo        null.String `json:"warranty_info"`
	WarrantyExpiresAt   null.Time   `json:"warranty_expires_at"`
	Location            null.String `json:"location"`
	DepartmentID        null.Uint64 `json:"department_id"`
	MaintenanceTeamID   null.Uint64 `json:"maintenance_team_id"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id"`
	IsUsable            bool        `json:"is_usable"`
	IsArchived          bool        `json:"is_archived"`
	ArchivedAt          null.Time   `json:"archived_at"`

	types.BaseEntity

	// Поля для связанных данных (не колонки таблицы)
	MaintenanceTeam   *Team `json:"maintenance_team,omitempty" db:"-"`
	DefaultTechnician *User `json:"default_technician,omitempty" db:"-"`
}

// AcceptsRequests — предусловие создания заявки: оборудование пригодно,
// не в архиве и за ним закреплена команда обслуживания.
func (e *Equipment) AcceptsRequests() bool {
	return e.IsUsable && !e.IsArchived && e.MaintenanceTeamID.Valid
}
