package validation

import (
	"time"

	"kindergarten/internal/models"
)

// earliestYear is the lower bound for a group's year of creation
const earliestYear = 1900

// Position validates a position form
func Position(p *models.Position) error {
	errs := Errors{}
	required(errs, "name", p.Name)
	maxLength(errs, "name", p.Name)
	return errs.Err()
}

// GroupType validates a group type form; the note is free text
func GroupType(g *models.GroupType) error {
	errs := Errors{}
	required(errs, "name", g.Name)
	maxLength(errs, "name", g.Name)
	return errs.Err()
}

// Staff validates a staff form
func Staff(s *models.Staff) error {
	errs := Errors{}
	required(errs, "full_name", s.FullName)
	maxLength(errs, "full_name", s.FullName)
	maxLength(errs, "address", s.Address)
	if s.Phone != nil && *s.Phone < 0 {
		errs.Add("phone", "must be a positive number")
	}
	return errs.Err()
}

// Parent validates a parent form; at least one name must be given
func Parent(p *models.Parent) error {
	errs := Errors{}
	if p.MotherName == "" && p.FatherName == "" {
		errs.Add("mother_name", "mother or father name is required")
	}
	maxLength(errs, "mother_name", p.MotherName)
	maxLength(errs, "father_name", p.FatherName)
	return errs.Err()
}

// Group validates a group form
func Group(g *models.Group) error {
	return group(g, time.Now())
}

func group(g *models.Group, now time.Time) error {
	errs := Errors{}
	required(errs, "name", g.Name)
	maxLength(errs, "name", g.Name)
	if g.ChildCount != nil && *g.ChildCount < 0 {
		errs.Add("child_count", "cannot be negative")
	}
	if g.YearOfCreation != nil && (*g.YearOfCreation < earliestYear || *g.YearOfCreation > now.Year()) {
		errs.Add("year_of_creation", "must be a past or current year")
	}
	return errs.Err()
}

// Child validates a child form
func Child(c *models.Child) error {
	return child(c, time.Now())
}

func child(c *models.Child, now time.Time) error {
	errs := Errors{}
	required(errs, "full_name", c.FullName)
	maxLength(errs, "full_name", c.FullName)
	maxLength(errs, "gender", c.Gender)
	maxLength(errs, "address", c.Address)
	maxLength(errs, "other_group", c.OtherGroup)
	if c.BirthDate != nil && c.BirthDate.After(now) {
		errs.Add("birth_date", "cannot be in the future")
	}
	return errs.Err()
}

// Credentials validates a new account
func Credentials(email, name, password, role string) error {
	errs := Errors{}
	errs.AddError("email", ValidateEmail(email))
	errs.AddError("name", ValidateName(name))
	errs.AddError("password", ValidatePassword(password))
	errs.AddError("role", ValidateRole(role))
	return errs.Err()
}

// User validates an account edited on the admin pages.
// New accounts need a password hash; an empty hash on an existing account keeps the old password.
func User(u *models.User) error {
	errs := Errors{}
	errs.AddError("email", ValidateEmail(u.Email))
	errs.AddError("name", ValidateName(u.Name))
	errs.AddError("role", ValidateRole(u.Role))
	if u.ID == 0 && u.PasswordHash == "" {
		errs.Add("password", "password is required")
	}
	return errs.Err()
}
