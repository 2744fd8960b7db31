package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "maintenance-system/pkg/errors"
)

func TestRequireRole_NilPrincipal(t *testing.T) {
	// Аутентификация проверяется раньше роли: nil-актор — всегда 401,
	// даже если список ролей пуст.
	err := RequireRole(nil, RoleAdmin, RoleManager)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	err = RequireRole(nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	p := &Principal{ID: 7, Role: RoleTechnician}

	assert.NoError(t, RequireRole(p, RoleTechnician))
	assert.NoError(t, RequireRole(p, RoleAdmin, RoleTechnician))
	assert.ErrorIs(t, RequireRole(p, RoleAdmin, RoleManager), apperrors.ErrForbidden)
	assert.ErrorIs(t, RequireRole(p), apperrors.ErrForbidden)
}

func TestIsPrivileged(t *testing.T) {
	assert.True(t, IsPrivileged(&Principal{Role: RoleAdmin}))
	assert.True(t, IsPrivileged(&Principal{Role: RoleManager}))
	assert.False(t, IsPrivileged(&Principal{Role: RoleTechnician}))
	assert.False(t, IsPrivileged(&Principal{Role: RoleUser}))
	assert.False(t, IsPrivileged(nil))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("MANAGER")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("SUPERVISOR")
	assert.False(t, ok)

	// регистр значим: роли хранятся в БД в верхнем регистре
	_, ok = ParseRole("admin")
	assert.False(t, ok)
}
