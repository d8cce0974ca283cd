package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateEmail checks an address against the basic email pattern.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: a valid email address is required", ErrInvalidInput)
	}
	return nil
}
