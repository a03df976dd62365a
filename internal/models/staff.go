package models

// Staff is a kindergarten employee
type Staff struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	Phone      *int   `json:"phone,omitempty"`
	PositionID *int64 `json:"position_id,omitempty"`
	Info       string `json:"info"`
	Reward     string `json:"reward"`

	// Position is loaded by reads that join positions; nil when unset or dangling
	Position *Position `json:"position,omitempty"`
}

func (s Staff) GetID() int64 { return s.ID }
