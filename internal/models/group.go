package models

// Group is a class of children supervised by one staff member
type Group struct {
	ID             int64  `json:"id"`
	Name           string `json:"group_name"`
	StaffID        *int64 `json:"staff_id,omitempty"`
	ChildCount     *int   `json:"child_count,omitempty"`
	YearOfCreation *int   `json:"year_of_creation,omitempty"`
	TypeID         *int64 `json:"type_id,omitempty"`

	Staff *Staff     `json:"staff,omitempty"`
	Type  *GroupType `json:"type,omitempty"`
}

func (g Group) GetID() int64 { return g.ID }
