package dto

import "github.com/aarondl/null/v8"

type RegisterDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	// Роль может задать только ADMIN (или самый первый пользователь).
	Role null.String `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MANAGER TECHNICIAN USER"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type AuthResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
