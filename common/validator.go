package common

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the payload's validation tags and returns the
// validation errors, if any.
func ValidateStruct(payload interface{}) error {
	return validate.Struct(payload)
}

// ValidateRequired checks a single required value, such as a bare username.
func ValidateRequired(value string) error {
	return validate.Var(value, "required")
}
