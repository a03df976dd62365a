package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountFields(t *testing.T) {
	tests := []struct {
		name      string
		check     func() error
		wantField string
	}{
		{"staff email", func() error { return ValidateEmail("head@kindergarten.test") }, ""},
		{"email is trimmed", func() error { return ValidateEmail("  nurse@kg.test  ") }, ""},
		{"email without domain", func() error { return ValidateEmail("nurse@kg") }, "email"},
		{"blank email", func() error { return ValidateEmail("   ") }, "email"},
		{"two letter name", func() error { return ValidateName("Li") }, ""},
		{"name of spaces", func() error { return ValidateName("  ") }, "name"},
		{"one letter name", func() error { return ValidateName(" J ") }, "name"},
		{"eight character password", func() error { return ValidatePassword("kinder88") }, ""},
		{"seven character password", func() error { return ValidatePassword("kinder8") }, "password"},
		{"admin role", func() error { return ValidateRole("admin") }, ""},
		{"user role", func() error { return ValidateRole("user") }, ""},
		{"roles are case sensitive", func() error { return ValidateRole("Admin") }, "role"},
		{"empty role", func() error { return ValidateRole("") }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestErrorsAddKeepsFirstMessage(t *testing.T) {
	errs := Errors{}
	errs.Add("full_name", "is required")
	errs.Add("full_name", "must be at most 255 characters")
	errs.Add("phone", "must be a number")

	assert.Equal(t, "is required", errs["full_name"])
	assert.Equal(t, "full_name: is required; phone: must be a number", errs.Error())
}

func TestErrorsAddError(t *testing.T) {
	errs := Errors{}

	errs.AddError("login", ValidationError{Field: "email", Message: "invalid email format"})
	errs.AddError("phone", errors.New("must be a number"))
	errs.AddError("address", nil)

	assert.Equal(t, Errors{
		"email": "invalid email format",
		"phone": "must be a number",
	}, errs)
}

func TestErrorsErr(t *testing.T) {
	assert.Nil(t, Errors{}.Err())

	errs := Errors{"year_of_creation": "must be between 1900 and now"}
	err := errs.Err()
	require.Error(t, err)

	var got Errors
	require.True(t, errors.As(err, &got))
	assert.Equal(t, errs, got)
}

func TestCredentials(t *testing.T) {
	assert.NoError(t, Credentials("admin@kg.test", "Head Teacher", "password123", "admin"))

	err := Credentials("bad", "A", "short", "owner")
	assert.ElementsMatch(t, []string{"email", "name", "password", "role"}, fields(t, err))

	err = Credentials("nurse@kg.test", "Nurse", "password123", "guest")
	assert.Equal(t, []string{"role"}, fields(t, err))
	assert.True(t, strings.Contains(err.Error(), "role must be admin or user"), err.Error())
}
