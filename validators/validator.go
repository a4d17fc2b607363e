package validators

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate returns validator.ValidationErrors untouched so the error handler
// can enumerate the offending fields.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
