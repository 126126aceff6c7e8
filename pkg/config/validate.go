package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against the `validate` struct tags declared on Config
// and its nested sections. Called by Load after ApplyDefaults, so a field
// left at its zero value by both the file and the environment still fails
// validation if it is marked required.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("%w", formatValidationErrors(verrs))
		}
		return err
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	msg := "invalid configuration:"
	for _, fe := range verrs {
		msg += fmt.Sprintf(" %s failed %q constraint;", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%s", msg)
}
