package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "maintenance-system/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку бизнес-уровня в HTTP-ответ.
// Неизвестные ошибки схлопываются в 500 без деталей.
func ErrorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := apperrors.ErrInternalServer.Message
	var details map[string]string

	var httpErr *apperrors.HttpError
	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
		details = httpErr.Details
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = "ошибка валидации входных данных"
		details = map[string]string{}
		for _, fe := range validationErrs {
			details[fe.Field()] = fe.Tag()
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if m, ok := echoErr.Message.(string); ok {
			message = m
		}
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    details,
		Message: message,
	})
}
