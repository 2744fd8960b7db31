package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

// PrincipalProvider возвращает актуального актора по его ID.
// Пользователь перечитывается из БД на каждый запрос: смена роли
// вступает в силу немедленно, а не по истечении токена.
type PrincipalProvider interface {
	FindPrincipalByID(ctx context.Context, id uint64) (*authz.Principal, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	principals PrincipalProvider
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, principals PrincipalProvider, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		principals: principals,
		logger:     logger,
	}
}

// Auth — обязательная аутентификация: без валидного токена запрос не проходит.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.resolve(c)
		if err != nil {
			return utils.ErrorResponse(c, err)
		}
		injectPrincipal(c, principal)
		return next(c)
	}
}

// OptionalAuth — принципал кладётся в контекст, если токен есть и валиден;
// иначе запрос идёт дальше анонимно. Нужен регистрации первого пользователя.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.resolve(c)
		if err == nil {
			injectPrincipal(c, principal)
		}
		return next(c)
	}
}

func (m *AuthMiddleware) resolve(c echo.Context) (*authz.Principal, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.ErrEmptyAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
		return nil, apperrors.ErrInvalidAuthHeader
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	principal, err := m.principals.FindPrincipalByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// токен валиден, но пользователь удалён
			return nil, apperrors.ErrInvalidToken
		}
		m.logger.Error("AuthMiddleware: не удалось загрузить пользователя", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	return principal, nil
}

func injectPrincipal(c echo.Context, principal *authz.Principal) {
	ctx := context.WithValue(c.Request().Context(), contextkeys.PrincipalKey, principal)
	c.SetRequest(c.Request().WithContext(ctx))
}
