package authz

import (
	apperrors "maintenance-system/pkg/errors"
)

// Role — закрытое перечисление ролей. Роль пользователя неизменна в рамках
// одного запроса; любые проверки ролей проходят только через RequireRole и
// IsPrivileged, чтобы логика не расползалась по вызывающим местам.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
	RoleUser       Role = "USER"
)

var allRoles = map[Role]struct{}{
	RoleAdmin:      {},
	RoleManager:    {},
	RoleTechnician: {},
	RoleUser:       {},
}

// ParseRole валидирует строку из БД или запроса.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := allRoles[r]
	return r, ok
}

// Principal — аутентифицированный актор операции.
type Principal struct {
	ID   uint64
	Role Role
}

// RequireRole: сначала проверка аутентификации, затем роли.
// Чистая функция, без I/O.
func RequireRole(p *Principal, roles ...Role) error {
	if p == nil {
		return apperrors.ErrUnauthenticated
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// IsPrivileged: ADMIN и MANAGER обходят проверку членства в команде.
// Само решение «пропустить проверку» принимает оркестратор, не этот пакет.
func IsPrivileged(p *Principal) bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleManager)
}
