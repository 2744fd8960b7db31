package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type Team struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	types.BaseEntity

	// Заполняется при выборке с членами, не колонка таблицы.
	Members []User `json:"members,omitempty" db:"-"`
}

// TeamMember — связь many-to-many без полезной нагрузки: сам факт
// существования записи и есть сигнал членства.
type TeamMember struct {
	TeamID    uint64    `json:"team_id"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
