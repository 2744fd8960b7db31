package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestController(requestService services.RequestServiceInterface, logger *zap.Logger) *RequestController {
	return &RequestController{requestService: requestService, logger: logger}
}

func (c *RequestController) GetRequests(ctx echo.Context) error {
	filter := parseRequestFilter(ctx)
	res, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявки успешно получены", http.StatusOK, uint64(len(res)))
}

// GetCalendar — лента PREVENTIVE-заявок с датой, для календарного экрана.
func (c *RequestController) GetCalendar(ctx echo.Context) error {
	filter := parseRequestFilter(ctx)
	filter.Calendar = true
	res, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Календарь обслуживания получен", http.StatusOK, uint64(len(res)))
}

func (c *RequestController) FindRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	res, err := c.requestService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно найдена", http.StatusOK)
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	res, err := c.requestService.CreateRequest(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

func (c *RequestController) AssignTechnician(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	var payload dto.AssignTechnicianDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	res, err := c.requestService.AssignTechnician(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Техник назначен", http.StatusOK)
}

func (c *RequestController) TransitionStatus(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	var payload dto.TransitionStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	res, err := c.requestService.TransitionStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки изменён", http.StatusOK)
}

func (c *RequestController) ScheduleRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	var payload dto.ScheduleRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	res, err := c.requestService.ScheduleRequest(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Плановая дата обновлена", http.StatusOK)
}

func parseRequestFilter(ctx echo.Context) dto.RequestFilterDTO {
	filter := dto.RequestFilterDTO{}
	if v := ctx.QueryParam("type"); v != "" {
		filter.Type = null.StringFrom(v)
	}
	if v := ctx.QueryParam("status"); v != "" {
		if strings.Contains(v, ",") {
			filter.Statuses = strings.Split(v, ",")
		} else {
			filter.Status = null.StringFrom(v)
		}
	}
	if v := ctx.QueryParam("team_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.TeamID = null.Uint64From(id)
		}
	}
	if v := ctx.QueryParam("equipment_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.EquipmentID = null.Uint64From(id)
		}
	}
	if v := ctx.QueryParam("technician_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.TechnicianID = null.Uint64From(id)
		}
	}
	if v := ctx.QueryParam("overdue"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Overdue = null.BoolFrom(b)
		}
	}
	return filter
}
