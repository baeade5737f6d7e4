package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type creds struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Note     string `validate:"omitempty,max=3"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(creds{Email: "a@example.com", Password: "pw1"}))

	err := ValidateStruct(creds{Email: "not-an-email", Note: "toolong"})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.Equal(t, map[string]string{
		"email":    "email",
		"password": "required",
		"Note":     "max",
	}, fields)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	require.Nil(t, FieldErrors(errors.New("boom")))
	require.Nil(t, FieldErrors(nil))
}
