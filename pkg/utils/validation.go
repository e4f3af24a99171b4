package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/questly/backend/pkg/apperr"
)

var validate = validator.New()

// ValidateStruct runs the struct's validation tags and converts any
// failures into a 400 carrying a field->message map in the data slot.
func ValidateStruct(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.BadRequest("Some values are invalid", nil)
	}

	fields := map[string]string{}
	for _, fieldError := range validationErrors {
		fields[lowerFirst(fieldError.Field())] = validationMessage(fieldError)
	}

	return apperr.BadRequest("Some values are invalid", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
