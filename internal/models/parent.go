package models

import "strings"

// Parent holds the names of a child's mother and father
type Parent struct {
	ID         int64  `json:"id"`
	MotherName string `json:"mother_name"`
	FatherName string `json:"father_name"`
}

func (p Parent) GetID() int64 { return p.ID }

// DisplayName joins the non-empty parent names for select lists and tables
func (p Parent) DisplayName() string {
	var names []string
	for _, n := range []string{p.MotherName, p.FatherName} {
		if n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " / ")
}
