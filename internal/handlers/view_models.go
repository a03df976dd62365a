package handlers

import (
	"kindergarten/internal/listing"
	"kindergarten/internal/models"
)

type MenuItem struct {
	Label     string
	Path      string
	Active    bool
	AdminOnly bool
}

// PageData is shared by every authenticated page
type PageData struct {
	Title     string
	User      *models.User
	CSRFToken string
	Menu      []MenuItem
}

type LoginViewData struct {
	PageData
	Error string
	Email string
}

type ListHeader struct {
	Label    string
	Sortable bool
	// NextSort is the key applied when the header is clicked
	NextSort listing.SortKey
	Active   bool
	Desc     bool
}

type ListRow struct {
	ID    int64
	Cells []string
}

type FilterInput struct {
	Name  string
	Label string
	Value string
}

type ListViewData struct {
	PageData
	Path    string
	Headers []ListHeader
	Rows    []ListRow
	Filters []FilterInput
	Page    listing.Page
	SortKey listing.SortKey
}

type DetailRow struct {
	Label string
	Value string
}

type DetailViewData struct {
	PageData
	Path string
	ID   int64
	Rows []DetailRow
}

type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

type FormField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Required bool
	Options  []SelectOption
}

type FormViewData struct {
	PageData
	Path   string
	Action string
	ID     int64
	IsEdit bool
	Fields []FormField
	// Error is shown above the form for problems not tied to a field
	Error string
}

type DeleteViewData struct {
	PageData
	Path        string
	ID          int64
	Description string
}
