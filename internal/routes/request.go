package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runRequestRouter(g *echo.Group, ctrl *controllers.RequestController) {
	g.GET("/requests", ctrl.GetRequests)
	g.GET("/requests/calendar", ctrl.GetCalendar)
	g.GET("/requests/:id", ctrl.FindRequest)
	g.POST("/requests", ctrl.CreateRequest)
	g.PATCH("/requests/:id/assign", ctrl.AssignTechnician)
	g.PATCH("/requests/:id/status", ctrl.TransitionStatus)
	g.PATCH("/requests/:id/schedule", ctrl.ScheduleRequest)
}
