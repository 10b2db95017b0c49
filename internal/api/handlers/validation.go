package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// в ошибках используем имена полей из json тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate проверяет структуру по тегам validate и возвращает ошибки по полям (nil - ошибок нет)
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": "некорректный запрос"}
	}

	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			details[field] = "обязательное поле"
		case "min":
			details[field] = "значение слишком короткое (минимум " + fe.Param() + ")"
		case "max":
			details[field] = "значение слишком длинное (максимум " + fe.Param() + ")"
		case "gte":
			details[field] = "значение должно быть не меньше " + fe.Param()
		case "lte":
			details[field] = "значение должно быть не больше " + fe.Param()
		case "gt":
			details[field] = "значение должно быть больше " + fe.Param()
		case "datetime":
			details[field] = "ожидается формат " + fe.Param()
		default:
			details[field] = "некорректное значение"
		}
	}
	return details
}
