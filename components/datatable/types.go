package datatable

// Column IDs with reserved placement rules. A column declared with
// ColumnSelect renders row-selection checkboxes and is always ordered first;
// ColumnActions carries per-row action controls and is always ordered last,
// regardless of declaration order.
const (
	ColumnSelect  = "select"
	ColumnActions = "actions"
)

// Row is the dynamic record shape used by manifest-driven tables. Statically
// typed callers use Table[T] directly with their own row type.
type Row = map[string]any

// MatchMode controls how a column filter compares cell values.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchPrefix   MatchMode = "prefix"
	MatchContains MatchMode = "contains"
)

// SortDirection is the direction of the single active sort descriptor.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Column describes how one field of a row is rendered, sorted, and filtered.
// The accessor is resolved once at definition time; the engine never inspects
// row shapes directly. Compare defaults to CompareValues, Match to MatchExact.
type Column[T any] struct {
	ID         string
	Title      string
	Accessor   func(T) any
	Compare    func(a, b any) int
	Match      MatchMode
	Sortable   bool
	Filterable bool
	Hidden     bool
}

// Label returns the header text, falling back to the column ID when no title
// is set.
func (c Column[T]) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.ID
}

// SortState holds the single active sort descriptor. A zero value means the
// input order is preserved.
type SortState struct {
	ColumnID  string        `json:"column_id"`
	Direction SortDirection `json:"direction"`
}

// PageState locates the visible slice within the filtered row set.
type PageState struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// State combines the descriptors driving materialization. All mutation goes
// through the transition methods in state.go so every reachable State is
// internally consistent.
type State struct {
	Sort     SortState
	Filters  map[string]any
	Page     PageState
	Selected map[string]struct{}
}

// NewState returns an empty state with the given page size.
func NewState(pageSize int) State {
	return State{
		Filters:  map[string]any{},
		Page:     PageState{Size: pageSize},
		Selected: map[string]struct{}{},
	}
}

// View is the derived output of a materialization pass.
type View[T any] struct {
	Rows      []T      // rows on the effective page, in display order
	Keys      []string // row keys aligned with Rows
	PageIndex int      // effective page index after clamping
	PageCount int      // always >= 1
	Filtered  int      // rows passing the active filters
	Total     int      // size of the unfiltered input set
}
