package validator

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their form tag so messages match the wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// Let numeric tags (gte, lte, ...) apply to decimal fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			value, _ := d.Float64()
			return value
		}
		return nil
	}, decimal.Decimal{})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = "the " + field + " field is required"
			case "max":
				errors[field] = "the " + field + " field must not be greater than " + e.Param() + " characters"
			case "gte":
				errors[field] = "the " + field + " field must be at least " + e.Param()
			case "lte":
				errors[field] = "the " + field + " field must be at most " + e.Param()
			default:
				errors[field] = "the " + field + " field is invalid"
			}
		}
	}

	return errors
}

// Message collapses the field-error map into one deterministic message for
// the response envelope.
func (cv *CustomValidator) Message(err error) string {
	errors := cv.FormatValidationErrors(err)

	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, errors[field])
	}

	return strings.Join(messages, "; ")
}
