package errors

import (
	"fmt"
	"net/http"
)

// HttpError — ошибка бизнес-уровня с HTTP-статусом.
// Контроллеры через utils.ErrorResponse превращают её в ответ клиенту,
// внутренняя причина (Err) наружу не сериализуется.
type HttpError struct {
	Code    int               `json:"-"`
	Message string            `json:"message"`
	Err     error             `json:"-"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]string) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// Базовая таксономия. Forbidden и NotFound намеренно различимы:
// транспортный слой не должен их склеивать.
var (
	ErrUnauthenticated = NewHttpError(http.StatusUnauthorized, "требуется аутентификация", nil, nil)
	ErrForbidden       = NewHttpError(http.StatusForbidden, "доступ запрещён", nil, nil)
	ErrNotTeamMember   = NewHttpError(http.StatusForbidden, "пользователь не состоит в этой команде", nil, nil)
	ErrNotFound        = NewHttpError(http.StatusNotFound, "запись не найдена", nil, nil)
	ErrConflict        = NewHttpError(http.StatusConflict, "запись была изменена параллельно, повторите запрос", nil, nil)
	ErrInternalServer  = NewHttpError(http.StatusInternalServerError, "внутренняя ошибка сервера", nil, nil)

	// JWT и заголовки авторизации
	ErrInvalidSigningMethod = NewHttpError(http.StatusUnauthorized, "неверный метод подписи токена", nil, nil)
	ErrInvalidToken         = NewHttpError(http.StatusUnauthorized, "недопустимый токен", nil, nil)
	ErrTokenExpired         = NewHttpError(http.StatusUnauthorized, "срок действия токена истёк", nil, nil)
	ErrEmptyAuthHeader      = NewHttpError(http.StatusUnauthorized, "заголовок авторизации отсутствует", nil, nil)
	ErrInvalidAuthHeader    = NewHttpError(http.StatusUnauthorized, "неверный формат заголовка авторизации", nil, nil)
	ErrInvalidCredentials   = NewHttpError(http.StatusUnauthorized, "неверный email или пароль", nil, nil)
)

// NewInvalidStateError — сущность существует, но не проходит предусловие
// (списанное или архивное оборудование, заявка не того типа и т.п.).
func NewInvalidStateError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusBadRequest, fmt.Sprintf(format, args...), nil, nil)
}

// NewInvalidTransitionError — переход статуса не разрешён машиной состояний.
func NewInvalidTransitionError(from, to string) *HttpError {
	return NewHttpError(http.StatusConflict, fmt.Sprintf("недопустимый переход статуса: %s -> %s", from, to), nil, nil)
}

// NewValidationError — некорректные входные данные.
func NewValidationError(format string, args ...interface{}) *HttpError {
	return NewHttpError(http.StatusBadRequest, fmt.Sprintf(format, args...), nil, nil)
}
