package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// start_date -> start date -> Start Date
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// FieldError is one failed rule, listed in the error details.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// MapValidationError turns binding errors into a VALIDATION_ERROR whose
// message names the first failed field and whose details list all of them.
// Anything else (malformed JSON) becomes ErrInvalidInput.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := make([]FieldError, len(errs))
		for i, fe := range errs {
			// Field() already returns the json name, see Init.
			details[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
		}

		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField).WithDetails(details)
		default:
			return InvalidField(humanReadableField).WithDetails(details)
		}
	}

	return ErrInvalidInput.WithCause(err)
}
