package models

// Position is a staff job title
type Position struct {
	ID   int64  `json:"id"`
	Name string `json:"position_name"`
}

func (p Position) GetID() int64 { return p.ID }
