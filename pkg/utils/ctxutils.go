package utils

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

// GetPrincipalFromCtx достаёт актора, положенного auth-middleware.
// Отсутствие принципала — это всегда 401, разбор причин — дело middleware.
func GetPrincipalFromCtx(ctx context.Context) (*authz.Principal, error) {
	principal, ok := ctx.Value(contextkeys.PrincipalKey).(*authz.Principal)
	if !ok || principal == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return principal, nil
}

// PrincipalFromCtxOrNil — вариант для роутов с необязательной
// аутентификацией (регистрация первого пользователя).
func PrincipalFromCtxOrNil(ctx context.Context) *authz.Principal {
	principal, _ := ctx.Value(contextkeys.PrincipalKey).(*authz.Principal)
	return principal
}
