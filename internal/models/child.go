package models

import "time"

// Child is a child enrolled in the kindergarten
type Child struct {
	ID         int64      `json:"id"`
	FullName   string     `json:"full_name"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Gender     string     `json:"gender"`
	ParentID   *int64     `json:"parent_id,omitempty"`
	Address    string     `json:"address"`
	GroupID    *int64     `json:"group_id,omitempty"`
	Note       string     `json:"note"`
	OtherGroup string     `json:"other_group"`

	Parent *Parent `json:"parent,omitempty"`
	Group  *Group  `json:"group,omitempty"`
}

func (c Child) GetID() int64 { return c.ID }
