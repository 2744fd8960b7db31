package validation

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator — обертка для использования в Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New создает и настраивает валидатор.
func New() *CustomValidator {
	v := validator.New()

	// Подключаем поддержку null-типов (types_adapter.go),
	// иначе validate-теги не видят значения внутри null.Time и null.Uint64.
	registerNullTypes(v)

	return &CustomValidator{validator: v}
}
