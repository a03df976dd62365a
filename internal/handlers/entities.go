package handlers

import (
	"context"
	"net/url"
	"strconv"

	"kindergarten/internal/models"
	"kindergarten/internal/security"
	"kindergarten/internal/validation"
)

// Menu is the navigation shown on every page, in the order of listing.Kinds
var Menu = []MenuItem{
	{Label: "Children", Path: "/children"},
	{Label: "Parents", Path: "/parents"},
	{Label: "Groups", Path: "/groups"},
	{Label: "Group types", Path: "/group-types"},
	{Label: "Staff", Path: "/staff"},
	{Label: "Positions", Path: "/positions"},
	{Label: "Users", Path: "/users", AdminOnly: true},
}

func positionName(p *models.Position) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func PositionEntity() Entity[models.Position] {
	return Entity[models.Position]{
		Path:     "/positions",
		Title:    "Positions",
		Singular: "Position",
		Columns: []Column[models.Position]{
			{Label: "Name", Sort: "name", Value: func(p models.Position) string { return p.Name }},
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
		},
		Values: func(p models.Position) map[string]string {
			return map[string]string{"name": p.Name}
		},
		Bind: func(form url.Values) (*models.Position, validation.Errors) {
			f := newFormReader(form)
			return &models.Position{ID: f.id(), Name: f.str("name")}, f.errs
		},
		Describe: func(p models.Position) string { return p.Name },
	}
}

func GroupTypeEntity() Entity[models.GroupType] {
	return Entity[models.GroupType]{
		Path:     "/group-types",
		Title:    "Group types",
		Singular: "Group type",
		Columns: []Column[models.GroupType]{
			{Label: "Type", Sort: "name", Value: func(g models.GroupType) string { return g.Name }},
			{Label: "Note", Sort: "note", Value: func(g models.GroupType) string { return g.Note }},
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Type", Type: "text", Required: true},
			{Name: "note", Label: "Note", Type: "textarea"},
		},
		Values: func(g models.GroupType) map[string]string {
			return map[string]string{"name": g.Name, "note": g.Note}
		},
		Bind: func(form url.Values) (*models.GroupType, validation.Errors) {
			f := newFormReader(form)
			return &models.GroupType{ID: f.id(), Name: f.str("name"), Note: f.str("note")}, f.errs
		},
		Describe: func(g models.GroupType) string { return g.Name },
	}
}

func StaffEntity(positions allLister[models.Position]) Entity[models.Staff] {
	return Entity[models.Staff]{
		Path:     "/staff",
		Title:    "Staff",
		Singular: "Staff member",
		Columns: []Column[models.Staff]{
			{Label: "Name", Sort: "name", Value: func(s models.Staff) string { return s.FullName }},
			{Label: "Address", Sort: "address", Value: func(s models.Staff) string { return s.Address }},
			{Label: "Phone", Sort: "phone", Value: func(s models.Staff) string { return formatInt(s.Phone) }},
			{Label: "Position", Sort: "position", Value: func(s models.Staff) string { return positionName(s.Position) }},
			{Label: "Info", Sort: "info", Value: func(s models.Staff) string { return s.Info }},
			{Label: "Reward", Sort: "reward", Value: func(s models.Staff) string { return s.Reward }},
		},
		Fields: []FieldSpec{
			{Name: "full_name", Label: "Name", Type: "text", Required: true},
			{Name: "address", Label: "Address", Type: "text"},
			{Name: "phone", Label: "Phone", Type: "number"},
			{Name: "position_id", Label: "Position", Type: "select", Options: "positions"},
			{Name: "info", Label: "Info", Type: "textarea"},
			{Name: "reward", Label: "Reward", Type: "textarea"},
		},
		Values: func(s models.Staff) map[string]string {
			return map[string]string{
				"full_name":   s.FullName,
				"address":     s.Address,
				"phone":       formatInt(s.Phone),
				"position_id": formatRef(s.PositionID),
				"info":        s.Info,
				"reward":      s.Reward,
			}
		},
		Bind: func(form url.Values) (*models.Staff, validation.Errors) {
			f := newFormReader(form)
			return &models.Staff{
				ID:         f.id(),
				FullName:   f.str("full_name"),
				Address:    f.str("address"),
				Phone:      f.intPtr("phone"),
				PositionID: f.ref("position_id"),
				Info:       f.str("info"),
				Reward:     f.str("reward"),
			}, f.errs
		},
		Options: func(ctx context.Context) (map[string][]SelectOption, error) {
			opts, err := optionsFrom(ctx, positions, func(p models.Position) string { return p.Name })
			if err != nil {
				return nil, err
			}
			return map[string][]SelectOption{"positions": opts}, nil
		},
		Describe: func(s models.Staff) string { return s.FullName },
	}
}

func ParentEntity() Entity[models.Parent] {
	return Entity[models.Parent]{
		Path:     "/parents",
		Title:    "Parents",
		Singular: "Parent",
		Columns: []Column[models.Parent]{
			{Label: "Mother", Sort: "mother", Value: func(p models.Parent) string { return p.MotherName }},
			{Label: "Father", Sort: "father", Value: func(p models.Parent) string { return p.FatherName }},
		},
		Fields: []FieldSpec{
			{Name: "mother_name", Label: "Mother", Type: "text"},
			{Name: "father_name", Label: "Father", Type: "text"},
		},
		Values: func(p models.Parent) map[string]string {
			return map[string]string{"mother_name": p.MotherName, "father_name": p.FatherName}
		},
		Bind: func(form url.Values) (*models.Parent, validation.Errors) {
			f := newFormReader(form)
			return &models.Parent{ID: f.id(), MotherName: f.str("mother_name"), FatherName: f.str("father_name")}, f.errs
		},
		Describe: func(p models.Parent) string {
			if name := p.DisplayName(); name != "" {
				return name
			}
			return describeID(p.ID)
		},
	}
}

func GroupEntity(staff allLister[models.Staff], types allLister[models.GroupType]) Entity[models.Group] {
	return Entity[models.Group]{
		Path:     "/groups",
		Title:    "Groups",
		Singular: "Group",
		Columns: []Column[models.Group]{
			{Label: "Name", Sort: "name", Value: func(g models.Group) string { return g.Name }},
			{Label: "Teacher", Sort: "staff", Value: func(g models.Group) string {
				if g.Staff == nil {
					return ""
				}
				return g.Staff.FullName
			}},
			{Label: "Children", Sort: "count", Value: func(g models.Group) string { return formatInt(g.ChildCount) }},
			{Label: "Year", Sort: "year", Value: func(g models.Group) string { return formatInt(g.YearOfCreation) }},
			{Label: "Type", Sort: "type", Value: func(g models.Group) string {
				if g.Type == nil {
					return ""
				}
				return g.Type.Name
			}},
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "staff_id", Label: "Teacher", Type: "select", Options: "staff"},
			{Name: "child_count", Label: "Children", Type: "number"},
			{Name: "year_of_creation", Label: "Year of creation", Type: "number"},
			{Name: "type_id", Label: "Type", Type: "select", Options: "types"},
		},
		Values: func(g models.Group) map[string]string {
			return map[string]string{
				"name":             g.Name,
				"staff_id":         formatRef(g.StaffID),
				"child_count":      formatInt(g.ChildCount),
				"year_of_creation": formatInt(g.YearOfCreation),
				"type_id":          formatRef(g.TypeID),
			}
		},
		Bind: func(form url.Values) (*models.Group, validation.Errors) {
			f := newFormReader(form)
			return &models.Group{
				ID:             f.id(),
				Name:           f.str("name"),
				StaffID:        f.ref("staff_id"),
				ChildCount:     f.intPtr("child_count"),
				YearOfCreation: f.intPtr("year_of_creation"),
				TypeID:         f.ref("type_id"),
			}, f.errs
		},
		Options: func(ctx context.Context) (map[string][]SelectOption, error) {
			staffOpts, err := optionsFrom(ctx, staff, func(s models.Staff) string { return s.FullName })
			if err != nil {
				return nil, err
			}
			typeOpts, err := optionsFrom(ctx, types, func(t models.GroupType) string { return t.Name })
			if err != nil {
				return nil, err
			}
			return map[string][]SelectOption{"staff": staffOpts, "types": typeOpts}, nil
		},
		Describe: func(g models.Group) string { return g.Name },
	}
}

func ChildEntity(parents allLister[models.Parent], groups allLister[models.Group]) Entity[models.Child] {
	return Entity[models.Child]{
		Path:     "/children",
		Title:    "Children",
		Singular: "Child",
		Columns: []Column[models.Child]{
			{Label: "Name", Sort: "name", Value: func(c models.Child) string { return c.FullName }},
			{Label: "Birth date", Sort: "birthdate", Value: func(c models.Child) string { return formatDate(c.BirthDate) }},
			{Label: "Gender", Sort: "gender", Value: func(c models.Child) string { return c.Gender }},
			{Label: "Parents", Sort: "parent", Value: func(c models.Child) string {
				if c.Parent == nil {
					return ""
				}
				return c.Parent.DisplayName()
			}},
			{Label: "Group", Sort: "group", Value: func(c models.Child) string {
				if c.Group == nil {
					return ""
				}
				return c.Group.Name
			}},
			{Label: "Address", Value: func(c models.Child) string { return c.Address }},
		},
		Details: []Column[models.Child]{
			{Label: "Note", Value: func(c models.Child) string { return c.Note }},
			{Label: "Other group", Value: func(c models.Child) string { return c.OtherGroup }},
		},
		Fields: []FieldSpec{
			{Name: "full_name", Label: "Name", Type: "text", Required: true},
			{Name: "birth_date", Label: "Birth date", Type: "date"},
			{Name: "gender", Label: "Gender", Type: "text"},
			{Name: "parent_id", Label: "Parents", Type: "select", Options: "parents"},
			{Name: "address", Label: "Address", Type: "text"},
			{Name: "group_id", Label: "Group", Type: "select", Options: "groups"},
			{Name: "note", Label: "Note", Type: "textarea"},
			{Name: "other_group", Label: "Other group", Type: "text"},
		},
		Values: func(c models.Child) map[string]string {
			return map[string]string{
				"full_name":   c.FullName,
				"birth_date":  formatDate(c.BirthDate),
				"gender":      c.Gender,
				"parent_id":   formatRef(c.ParentID),
				"address":     c.Address,
				"group_id":    formatRef(c.GroupID),
				"note":        c.Note,
				"other_group": c.OtherGroup,
			}
		},
		Bind: func(form url.Values) (*models.Child, validation.Errors) {
			f := newFormReader(form)
			return &models.Child{
				ID:         f.id(),
				FullName:   f.str("full_name"),
				BirthDate:  f.date("birth_date"),
				Gender:     f.str("gender"),
				ParentID:   f.ref("parent_id"),
				Address:    f.str("address"),
				GroupID:    f.ref("group_id"),
				Note:       f.str("note"),
				OtherGroup: f.str("other_group"),
			}, f.errs
		},
		Options: func(ctx context.Context) (map[string][]SelectOption, error) {
			parentOpts, err := optionsFrom(ctx, parents, func(p models.Parent) string { return p.DisplayName() })
			if err != nil {
				return nil, err
			}
			groupOpts, err := optionsFrom(ctx, groups, func(g models.Group) string { return g.Name })
			if err != nil {
				return nil, err
			}
			return map[string][]SelectOption{"parents": parentOpts, "groups": groupOpts}, nil
		},
		Describe: func(c models.Child) string {
			if c.BirthDate == nil {
				return c.FullName
			}
			return c.FullName + " (" + formatDate(c.BirthDate) + ")"
		},
	}
}

// describeID is used where a record has no readable name
func describeID(id int64) string {
	return "#" + strconv.FormatInt(id, 10)
}

var roleOptions = []SelectOption{
	{Value: models.RoleUser, Label: "User"},
	{Value: models.RoleAdmin, Label: "Administrator"},
}

// UserEntity manages sign-in accounts. The password is only written when one is typed.
func UserEntity() Entity[models.User] {
	return Entity[models.User]{
		Path:     "/users",
		Title:    "Users",
		Singular: "User",
		Columns: []Column[models.User]{
			{Label: "Email", Sort: "email", Value: func(u models.User) string { return u.Email }},
			{Label: "Name", Sort: "name", Value: func(u models.User) string { return u.Name }},
			{Label: "Role", Sort: "role", Value: func(u models.User) string { return u.Role }},
		},
		Details: []Column[models.User]{
			{Label: "Created", Value: func(u models.User) string { return u.CreatedAt.Format(dateLayout) }},
		},
		Fields: []FieldSpec{
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "role", Label: "Role", Type: "select", Options: "roles"},
			{Name: "password", Label: "Password (blank keeps the current one)", Type: "password"},
		},
		Values: func(u models.User) map[string]string {
			return map[string]string{"email": u.Email, "name": u.Name, "role": u.Role}
		},
		Bind: func(form url.Values) (*models.User, validation.Errors) {
			f := newFormReader(form)
			u := &models.User{ID: f.id(), Email: f.str("email"), Name: f.str("name"), Role: f.str("role")}
			password := form.Get("password")
			if password == "" {
				return u, f.errs
			}
			if err := validation.ValidatePassword(password); err != nil {
				f.errs.AddError("password", err)
				return u, f.errs
			}
			hash, err := security.HashPassword(password)
			if err != nil {
				f.errs.Add("password", "could not be stored")
				return u, f.errs
			}
			u.PasswordHash = hash
			return u, f.errs
		},
		Options: func(context.Context) (map[string][]SelectOption, error) {
			return map[string][]SelectOption{"roles": roleOptions}, nil
		},
		Describe: func(u models.User) string { return u.Email },
	}
}
