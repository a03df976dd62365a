package listing

// DefaultPageSize is used when a caller passes a non-positive page size
const DefaultPageSize = 10

// Page describes the position of one page within a list
type Page struct {
	Index       int  `json:"index"`
	Count       int  `json:"count"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// ComputePage clamps the requested page into [1, Count].
// An empty list has Count 0 and Index 1.
func ComputePage(requested, total, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	count := (total + pageSize - 1) / pageSize
	index := requested
	if index > count {
		index = count
	}
	if index < 1 {
		index = 1
	}

	return Page{
		Index:       index,
		Count:       count,
		HasPrevious: index > 1,
		HasNext:     index < count,
	}
}

// Offset returns the number of rows that precede this page
func (p Page) Offset(pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (p.Index - 1) * pageSize
}

// Previous and Next return the neighbouring page numbers for links
func (p Page) Previous() int { return p.Index - 1 }
func (p Page) Next() int     { return p.Index + 1 }
