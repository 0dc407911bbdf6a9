package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors converts a gin binding error into a field -> message map
// suitable for inline display next to each form input. Errors that are
// not validator errors come back under a single "form" key.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form submission"
		return out
	}

	for _, fe := range verrs {
		out[fieldName(fe)] = fieldMessage(fe)
	}
	return out
}

// fieldName maps the struct field back to its form name: snake_case of
// the Go field, matching the form tags used across the app.
func fieldName(fe validator.FieldError) string {
	var b strings.Builder
	for i, r := range fe.Field() {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min", "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be %s %s characters", tagWord(fe.Tag()), fe.Param())
		}
		return fmt.Sprintf("Must be %s %s", tagWord(fe.Tag()), fe.Param())
	default:
		return "Invalid value"
	}
}

func tagWord(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
