package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"
)

func runAuthRouter(g *echo.Group, ctrl *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	// Регистрация доступна без токена, но принципал (если есть) нужен:
	// роль при регистрации может задать только администратор.
	g.POST("/auth/register", ctrl.Register, authMW.OptionalAuth)
	g.POST("/auth/login", ctrl.Login)
	g.GET("/auth/me", ctrl.Me, authMW.Auth)
}
