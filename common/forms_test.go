package common

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	UserName string `validate:"required"`
	Email    string `validate:"required,email"`
	Rating   int    `validate:"min=1,max=10"`
	Bio      string `validate:"max=5"`
}

func validate(form sampleForm) error {
	return validator.New().Struct(form)
}

func TestFieldErrors_Required(t *testing.T) {
	err := validate(sampleForm{Email: "a@b.com", Rating: 5})
	fields := FieldErrors(err)

	assert.Equal(t, "This field is required", fields["user_name"])
	assert.NotContains(t, fields, "email")
}

func TestFieldErrors_Email(t *testing.T) {
	err := validate(sampleForm{UserName: "alice", Email: "nope", Rating: 5})
	fields := FieldErrors(err)

	assert.Equal(t, "Enter a valid email address", fields["email"])
}

func TestFieldErrors_NumericBounds(t *testing.T) {
	err := validate(sampleForm{UserName: "alice", Email: "a@b.com", Rating: 11})
	fields := FieldErrors(err)

	assert.Equal(t, "Must be at most 10", fields["rating"])

	err = validate(sampleForm{UserName: "alice", Email: "a@b.com", Rating: 0})
	fields = FieldErrors(err)

	assert.Equal(t, "Must be at least 1", fields["rating"])
}

func TestFieldErrors_StringLength(t *testing.T) {
	err := validate(sampleForm{UserName: "alice", Email: "a@b.com", Rating: 5, Bio: "too long"})
	fields := FieldErrors(err)

	assert.Equal(t, "Must be at most 5 characters", fields["bio"])
}

func TestFieldErrors_NonValidatorError(t *testing.T) {
	fields := FieldErrors(errors.New("EOF"))

	assert.Equal(t, map[string]string{"form": "Invalid form submission"}, fields)
}

func TestFieldName_SnakeCase(t *testing.T) {
	err := validate(sampleForm{Email: "a@b.com", Rating: 5})
	fields := FieldErrors(err)

	_, ok := fields["user_name"]
	assert.True(t, ok)
	_, ok = fields["UserName"]
	assert.False(t, ok)
}
