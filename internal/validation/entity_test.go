package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindergarten/internal/models"
)

func fields(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected Errors, got %T", err)
	var out []string
	for f := range errs {
		out = append(out, f)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestEntityValidation(t *testing.T) {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantFields []string
	}{
		{"position ok", Position(&models.Position{Name: "Cook"}), nil},
		{"position empty", Position(&models.Position{Name: "  "}), []string{"name"}},
		{"position too long", Position(&models.Position{Name: strings.Repeat("x", 256)}), []string{"name"}},
		{"group type ok with empty note", GroupType(&models.GroupType{Name: "Senior"}), nil},
		{"group type empty", GroupType(&models.GroupType{}), []string{"name"}},
		{"staff ok", Staff(&models.Staff{FullName: "Anna", Phone: ptr(5551234)}), nil},
		{"staff negative phone", Staff(&models.Staff{FullName: "Anna", Phone: ptr(-1)}), []string{"phone"}},
		{"parent mother only", Parent(&models.Parent{MotherName: "Maria"}), nil},
		{"parent no names", Parent(&models.Parent{}), []string{"mother_name"}},
		{"group ok", group(&models.Group{Name: "Sun", YearOfCreation: ptr(2019), ChildCount: ptr(20)}, now), nil},
		{"group future year", group(&models.Group{Name: "Sun", YearOfCreation: ptr(2030)}, now), []string{"year_of_creation"}},
		{"group negative count", group(&models.Group{Name: "Sun", ChildCount: ptr(-3)}, now), []string{"child_count"}},
		{"child ok", child(&models.Child{FullName: "Sasha", BirthDate: ptr(now.AddDate(-4, 0, 0))}, now), nil},
		{"child born tomorrow", child(&models.Child{FullName: "Sasha", BirthDate: ptr(now.AddDate(0, 0, 1))}, now), []string{"birth_date"}},
		{"child nameless", child(&models.Child{}, now), []string{"full_name"}},
		{"new user without password", User(&models.User{Email: "a@kg.test", Name: "Alla", Role: models.RoleUser}), []string{"password"}},
		{"edited user keeps password", User(&models.User{ID: 7, Email: "a@kg.test", Name: "Alla", Role: models.RoleAdmin}), nil},
		{"user bad email and role", User(&models.User{ID: 7, Email: "nope", Name: "Alla", Role: "guest"}), []string{"email", "role"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.wantFields, fields(t, tt.err))
		})
	}
}
