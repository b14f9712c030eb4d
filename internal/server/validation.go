package server

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const maxNameLength = 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return errors.New("invalid request")
		}
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return errors.New("missing or invalid field: " + strings.ToLower(fields[0].Field()))
		}
		return err
	}
	return nil
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("name is required")
	}
	if len(trimmed) > maxNameLength {
		return "", errors.New("name is too long")
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", errors.New("name contains invalid characters")
		}
	}
	return trimmed, nil
}
