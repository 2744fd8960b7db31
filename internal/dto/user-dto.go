package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"maintenance-system/internal/entities"
)

type UserDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      string      `json:"role"`
	AvatarURL null.String `json:"avatar_url"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func NewUserDTO(u *entities.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserDTOs(users []entities.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = NewUserDTO(&users[i])
	}
	return out
}
