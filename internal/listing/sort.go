package listing

// SortKey names one column and direction, e.g. "name_asc"
type SortKey string

// NoSort leaves the storage order untouched
const NoSort SortKey = ""

// Ordering is what a SortKey resolves to when building a query
type Ordering struct {
	Expr string
	Desc bool
}

// SortColumn is one logical column of a list that can be ordered by
type SortColumn struct {
	Name string
	Expr string
}

// SortState maps each column to the key applied if that column is clicked next
type SortState map[string]SortKey

// SortTable is the static sort definition of one entity kind
type SortTable struct {
	columns   []SortColumn
	orderings map[SortKey]Ordering
}

// NewSortTable registers an ascending and a descending key for every column
func NewSortTable(columns ...SortColumn) *SortTable {
	t := &SortTable{
		columns:   columns,
		orderings: make(map[SortKey]Ordering, len(columns)*2),
	}
	for _, c := range columns {
		t.orderings[AscKey(c.Name)] = Ordering{Expr: c.Expr}
		t.orderings[DescKey(c.Name)] = Ordering{Expr: c.Expr, Desc: true}
	}
	return t
}

func AscKey(column string) SortKey  { return SortKey(column + "_asc") }
func DescKey(column string) SortKey { return SortKey(column + "_desc") }

// Lookup returns the ordering for key; unknown keys report false
func (t *SortTable) Lookup(key SortKey) (Ordering, bool) {
	o, ok := t.orderings[key]
	return o, ok
}

// Known reports whether key belongs to this table
func (t *SortTable) Known(key SortKey) bool {
	_, ok := t.orderings[key]
	return ok
}

// Resolve computes the next key for every column given the key currently applied
func (t *SortTable) Resolve(current SortKey) SortState {
	state := make(SortState, len(t.columns))
	for _, c := range t.columns {
		if current == AscKey(c.Name) {
			state[c.Name] = DescKey(c.Name)
		} else {
			state[c.Name] = AscKey(c.Name)
		}
	}
	return state
}

// Columns returns the logical column names in declaration order
func (t *SortTable) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}
