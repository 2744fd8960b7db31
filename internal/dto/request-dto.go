package dto

import "github.com/aarondl/null/v8"

type CreateRequestDTO struct {
	Type        string `json:"type" validate:"required,oneof=CORRECTIVE PREVENTIVE"`
	Subject     string `json:"subject" validate:"required,min=1,max=255"`
	EquipmentID uint64 `json:"equipment_id" validate:"required,gt=0"`
	// Учитывается только для PREVENTIVE, для CORRECTIVE молча игнорируется.
	ScheduledDate null.Time `json:"scheduled_date,omitempty"`
}

type AssignTechnicianDTO struct {
	// Пусто — «назначить меня»: берётся ID вызывающего.
	TechnicianID null.Uint64 `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
}

type TransitionStatusDTO struct {
	Status        string       `json:"status" validate:"required,oneof=NEW IN_PROGRESS REPAIRED SCRAP"`
	DurationHours null.Float64 `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
	// Обязательно только при включённом REQUESTS_OPTIMISTIC_LOCKING.
	Version null.Uint64 `json:"version,omitempty"`
}

type ScheduleRequestDTO struct {
	ScheduledDate null.Time `json:"scheduled_date" validate:"required"`
}

type RequestFilterDTO struct {
	Type         null.String
	Status       null.String
	Statuses     []string
	TeamID       null.Uint64
	EquipmentID  null.Uint64
	TechnicianID null.Uint64
	Overdue      null.Bool
	// Calendar: только PREVENTIVE с заполненной датой.
	Calendar bool
}
