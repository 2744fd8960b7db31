package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name                string      `json:"name" validate:"required,min=1,max=255"`
	SerialNumber        null.String `json:"serial_number,omitempty" validate:"omitempty,min=1"`
	Category            null.String `json:"category,omitempty" validate:"omitempty,min=1"`
	PurchaseDate        null.Time   `json:"purchase_date,omitempty"`
	WarrantyInfo        null.String `json:"warranty_info,omitempty" validate:"omitempty,min=1"`
	WarrantyExpiresAt   null.Time   `json:"warranty_expires_at,omitempty"`
	Location            null.String `json:"location,omitempty" validate:"omitempty,min=1"`
	DepartmentID        null.Uint64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	MaintenanceTeamID   null.Uint64 `json:"maintenance_team_id,omitempty" validate:"omitempty,gt=0"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateEquipmentDTO — частичное обновление: nil-поля не трогаются,
// переданный невалидный null.* обнуляет колонку (открепление команды/техника).
type UpdateEquipmentDTO struct {
	Name                *string      `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	SerialNumber        *null.String `json:"serial_number,omitempty"`
	Category            *null.String `json:"category,omitempty"`
	PurchaseDate        *null.Time   `json:"purchase_date,omitempty"`
	WarrantyInfo        *null.String `json:"warranty_info,omitempty"`
	WarrantyExpiresAt   *null.Time   `json:"warranty_expires_at,omitempty"`
	Location            *null.String `json:"location,omitempty"`
	DepartmentID        *null.Uint64 `json:"department_id,omitempty"`
	MaintenanceTeamID   *null.Uint64 `json:"maintenance_team_id,omitempty"`
	DefaultTechnicianID *null.Uint64 `json:"default_technician_id,omitempty"`
	IsUsable            *bool        `json:"is_usable,omitempty"`
}

type ArchiveEquipmentDTO struct {
	Archived *bool `json:"archived" validate:"required"`
}

type EquipmentFilterDTO struct {
	DepartmentID null.Uint64
	TeamID       null.Uint64
	Archived     null.Bool
}

type MaintenanceCountDTO struct {
	EquipmentID uint64 `json:"equipment_id"`
	OpenCount   uint64 `json:"open_count"`
}
