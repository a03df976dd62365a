package listing

// Column expressions refer to the table aliases used by the repository list queries:
// positions p, group_types gt, staff s, parents pa, study_groups g, children c, users u.

var PositionKind = &Kind{
	Name: "Position",
	Sorts: NewSortTable(
		SortColumn{Name: "name", Expr: "p.position_name"},
	),
	Filters: []FilterField{
		{Name: "name", Label: "Name", Expr: "p.position_name", Mode: MatchContains},
	},
}

var GroupTypeKind = &Kind{
	Name: "GroupType",
	Sorts: NewSortTable(
		SortColumn{Name: "name", Expr: "gt.name_of_type"},
		SortColumn{Name: "note", Expr: "gt.note"},
	),
	Filters: []FilterField{
		{Name: "name", Label: "Type", Expr: "gt.name_of_type", Mode: MatchContains},
	},
}

var StaffKind = &Kind{
	Name: "Staff",
	Sorts: NewSortTable(
		SortColumn{Name: "name", Expr: "s.full_name"},
		SortColumn{Name: "address", Expr: "s.address"},
		SortColumn{Name: "phone", Expr: "s.phone"},
		SortColumn{Name: "position", Expr: "p.position_name"},
		SortColumn{Name: "info", Expr: "s.info"},
		SortColumn{Name: "reward", Expr: "s.reward"},
	),
	Filters: []FilterField{
		{Name: "name", Label: "Name", Expr: "s.full_name", Mode: MatchContains},
		{Name: "info", Label: "Info", Expr: "s.info", Mode: MatchContains},
		{Name: "reward", Label: "Reward", Expr: "s.reward", Mode: MatchContains},
	},
}

var ParentKind = &Kind{
	Name: "Parent",
	Sorts: NewSortTable(
		SortColumn{Name: "mother", Expr: "pa.mother_name"},
		SortColumn{Name: "father", Expr: "pa.father_name"},
	),
	Filters: []FilterField{
		{Name: "mother", Label: "Mother", Expr: "pa.mother_name", Mode: MatchContains},
		{Name: "father", Label: "Father", Expr: "pa.father_name", Mode: MatchContains},
	},
}

var GroupKind = &Kind{
	Name: "Group",
	Sorts: NewSortTable(
		SortColumn{Name: "name", Expr: "g.group_name"},
		SortColumn{Name: "staff", Expr: "s.full_name"},
		SortColumn{Name: "count", Expr: "g.child_count"},
		SortColumn{Name: "year", Expr: "g.year_of_creation"},
		SortColumn{Name: "type", Expr: "gt.name_of_type"},
	),
	Filters: []FilterField{
		{Name: "name", Label: "Name", Expr: "g.group_name", Mode: MatchContains},
		{Name: "year", Label: "Year", Expr: "g.year_of_creation", Mode: MatchEquals},
		{Name: "count", Label: "Children", Expr: "g.child_count", Mode: MatchEquals},
	},
}

var ChildKind = &Kind{
	Name: "Child",
	Sorts: NewSortTable(
		SortColumn{Name: "name", Expr: "c.full_name"},
		SortColumn{Name: "birthdate", Expr: "c.birth_date"},
		SortColumn{Name: "gender", Expr: "c.gender"},
		SortColumn{Name: "parent", Expr: "pa.mother_name"},
		SortColumn{Name: "group", Expr: "g.group_name"},
	),
	Filters: []FilterField{
		{Name: "name", Label: "Name", Expr: "c.full_name", Mode: MatchContains},
		{Name: "gender", Label: "Gender", Expr: "c.gender", Mode: MatchContains},
		{Name: "group", Label: "Group", Expr: "g.group_name", Mode: MatchContains},
	},
}

// UserKind lists sign-in accounts for administrators
var UserKind = &Kind{
	Name: "User",
	Sorts: NewSortTable(
		SortColumn{Name: "email", Expr: "u.email"},
		SortColumn{Name: "name", Expr: "u.name"},
		SortColumn{Name: "role", Expr: "u.role"},
	),
	Filters: []FilterField{
		{Name: "email", Label: "Email", Expr: "u.email", Mode: MatchContains},
		{Name: "name", Label: "Name", Expr: "u.name", Mode: MatchContains},
	},
}

// Kinds lists every entity kind in menu order
var Kinds = []*Kind{ChildKind, ParentKind, GroupKind, GroupTypeKind, StaffKind, PositionKind, UserKind}
