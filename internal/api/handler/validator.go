package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in messages come from the json tag.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Rule violations come back
// as a *domain.ValidationError listing every failed field.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return domain.NewValidationError(msgs...)
		}
		return err
	}
	return nil
}

// fieldError converts a single FieldError into a user-facing message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", field)
	case "email":
		return "Formato de email inválido"
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s elementos o caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("El campo %s no puede superar %s caracteres", field, fe.Param())
	case "len":
		return fmt.Sprintf("El campo %s debe tener %s caracteres", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("El campo %s solo admite dígitos", field)
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("El campo %s no es válido", field)
	}
}
