package models

// GroupType classifies groups, e.g. "Senior" or "Nursery"
type GroupType struct {
	ID   int64  `json:"id"`
	Name string `json:"name_of_type"`
	Note string `json:"note"`
}

func (g GroupType) GetID() int64 { return g.ID }
