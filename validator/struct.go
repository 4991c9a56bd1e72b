// Package validator wraps go-playground/validator for configuration structs.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// messages maps validation tags to friendly error messages.
var messages = map[string]string{
	"required": "The field '%s' is required.",
	"min":      "The field '%s' must be at least %s.",
	"max":      "The field '%s' must be no more than %s.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"lte":      "The field '%s' must be less than or equal to %s.",
	"gt":       "The field '%s' must be greater than %s.",
	"lt":       "The field '%s' must be less than %s.",
	"oneof":    "The field '%s' must be one of %s.",
}

// parseMessage constructs a friendly error message for one field error.
func parseMessage(field string, e validator.FieldError) string {
	if msg, ok := messages[e.Tag()]; ok {
		if strings.Count(msg, "%s") == 2 {
			return fmt.Sprintf(msg, field, e.Param())
		}
		return fmt.Sprintf(msg, field)
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
}

// ValidateStruct validates a struct pointer and returns a map of JSON field
// names to friendly error messages. An empty map means the struct is valid.
func ValidateStruct(s any) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			structType := reflect.TypeOf(s)
			if structType.Kind() == reflect.Pointer {
				structType = structType.Elem()
			}
			for _, e := range validationErrs {
				name := e.StructField()
				if field, ok := structType.FieldByName(e.StructField()); ok {
					if jsonTag := strings.Split(field.Tag.Get("json"), ",")[0]; jsonTag != "" {
						name = jsonTag
					}
				}
				validationErrors[name] = parseMessage(name, e)
			}
		}
	}
	return validationErrors
}
