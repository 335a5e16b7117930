package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/karuteens/moderation/internal/pkg/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В сообщениях используем имена полей из JSON, как их видит клиент.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput проверяет структуру по тегам validate и возвращает ValidationError.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректные данные")
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return apperror.Validation(strings.Join(parts, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: обязательное поле", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s: допустимые значения %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s: не длиннее %s", fe.Field(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s: значение вне диапазона", fe.Field())
	default:
		return fmt.Sprintf("%s: не прошло проверку %s", fe.Field(), fe.Tag())
	}
}
