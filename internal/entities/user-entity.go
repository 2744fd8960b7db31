package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/types"
)

type User struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         authz.Role  `json:"role"`
	AvatarURL    null.String `json:"avatar_url"`

	types.BaseEntity
}
