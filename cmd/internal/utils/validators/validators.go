package validators

import (
	"reflect"
	"strings"
	"unicode"

	"padelcourt/cmd/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Register installs the custom rules and makes validation errors report
// json field names.
func Register(validate *validator.Validate) {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("isodate", IsISODate)
	_ = validate.RegisterValidation("notblank", NotBlank)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
	_ = validate.RegisterValidation("quarterhour", IsQuarterHour)
}

// IsISODate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func IsISODate(fl validator.FieldLevel) bool {
	_, err := utils.ParseDate(fl.Field().String())
	return err == nil
}

func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		return strings.TrimSpace(field.Elem().String()) != ""
	default:
		return true
	}
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// IsQuarterHour checks decimal hours land on a 15 minute boundary.
func IsQuarterHour(fl validator.FieldLevel) bool {
	var v float64
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		v = fl.Field().Float()
	case reflect.Ptr:
		if fl.Field().IsNil() {
			return true
		}
		v = fl.Field().Elem().Float()
	default:
		return false
	}
	quarters := v * 4
	return quarters == float64(int64(quarters))
}
