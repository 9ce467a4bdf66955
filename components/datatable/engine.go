package datatable

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultPageSizes is the page-size allow-list used when none is configured.
var DefaultPageSizes = []int{10, 25, 50, 100}

// Engine derives the visible row subset from a full in-memory row set, a
// column model, and an engine State. Materialization is a pure function of
// its inputs: no side effects, no incremental bookkeeping, identical output
// for identical input.
type Engine[T any] struct {
	columns   []Column[T]
	pageSizes []int
	keyFn     func(index int, row T) string
}

// EngineOption customizes engine construction.
type EngineOption[T any] func(*Engine[T])

// WithPageSizes replaces the page-size allow-list.
func WithPageSizes[T any](sizes ...int) EngineOption[T] {
	return func(e *Engine[T]) {
		if len(sizes) > 0 {
			e.pageSizes = sizes
		}
	}
}

// WithKeyFunc supplies stable row keys. The index argument is the row's
// position in the unfiltered input, so positional keys survive filtering and
// sorting. Defaults to the formatted index.
func WithKeyFunc[T any](fn func(index int, row T) string) EngineOption[T] {
	return func(e *Engine[T]) {
		if fn != nil {
			e.keyFn = fn
		}
	}
}

// NewEngine validates the column model and builds an engine. Duplicate column
// IDs or an empty page-size allow-list fail fast with a ConfigurationError.
func NewEngine[T any](columns []Column[T], opts ...EngineOption[T]) (*Engine[T], error) {
	if len(columns) == 0 {
		return nil, errMissingColumns
	}
	normalized, err := normalizeColumns(columns)
	if err != nil {
		return nil, err
	}
	e := &Engine[T]{
		columns:   normalized,
		pageSizes: DefaultPageSizes,
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.pageSizes) == 0 {
		return nil, configErrorf("page sizes", "allow-list is empty")
	}
	for _, size := range e.pageSizes {
		if size <= 0 {
			return nil, configErrorf("page sizes", "size %d must be positive", size)
		}
	}
	if e.keyFn == nil {
		e.keyFn = func(index int, _ T) string { return strconv.Itoa(index) }
	}
	return e, nil
}

// normalizeColumns enforces unique IDs and the reserved placement rules:
// "select" first, "actions" last, all other columns in declared order.
func normalizeColumns[T any](columns []Column[T]) ([]Column[T], error) {
	seen := make(map[string]struct{}, len(columns))
	var selectCol, actionsCol *Column[T]
	rest := make([]Column[T], 0, len(columns))
	for i := range columns {
		col := columns[i]
		if col.ID == "" {
			return nil, configErrorf("columns", "column at index %d is missing an id", i)
		}
		if _, dup := seen[col.ID]; dup {
			return nil, configErrorf("columns", "duplicate column id %q", col.ID)
		}
		seen[col.ID] = struct{}{}
		switch col.ID {
		case ColumnSelect:
			selectCol = &col
		case ColumnActions:
			actionsCol = &col
		default:
			rest = append(rest, col)
		}
	}
	ordered := make([]Column[T], 0, len(columns))
	if selectCol != nil {
		ordered = append(ordered, *selectCol)
	}
	ordered = append(ordered, rest...)
	if actionsCol != nil {
		ordered = append(ordered, *actionsCol)
	}
	return ordered, nil
}

// Columns returns the normalized column model.
func (e *Engine[T]) Columns() []Column[T] {
	out := make([]Column[T], len(e.columns))
	copy(out, e.columns)
	return out
}

// Column looks up a column by ID.
func (e *Engine[T]) Column(id string) (Column[T], bool) {
	for _, col := range e.columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column[T]{}, false
}

// PageSizes returns the allow-list.
func (e *Engine[T]) PageSizes() []int {
	out := make([]int, len(e.pageSizes))
	copy(out, e.pageSizes)
	return out
}

// AllowsPageSize reports whether size belongs to the allow-list.
func (e *Engine[T]) AllowsPageSize(size int) bool {
	for _, allowed := range e.pageSizes {
		if allowed == size {
			return true
		}
	}
	return false
}

// Key returns the stable key for a row at its unfiltered index.
func (e *Engine[T]) Key(index int, row T) string {
	return e.keyFn(index, row)
}

// Materialize computes the filtered, ordered, paginated view of rows. The
// page index is clamped into [0, pageCount-1]; the effective index is
// reported on the returned View.
func (e *Engine[T]) Materialize(rows []T, state State) View[T] {
	indices := e.filteredIndices(rows, state.Filters)
	e.sortIndices(rows, indices, state.Sort)

	size := state.Page.Size
	if size <= 0 {
		size = e.pageSizes[0]
	}
	pageCount := (len(indices) + size - 1) / size
	if pageCount < 1 {
		pageCount = 1
	}
	pageIndex := state.Page.Index
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageIndex > pageCount-1 {
		pageIndex = pageCount - 1
	}

	start := pageIndex * size
	end := start + size
	if start > len(indices) {
		start = len(indices)
	}
	if end > len(indices) {
		end = len(indices)
	}

	view := View[T]{
		Rows:      make([]T, 0, end-start),
		Keys:      make([]string, 0, end-start),
		PageIndex: pageIndex,
		PageCount: pageCount,
		Filtered:  len(indices),
		Total:     len(rows),
	}
	for _, idx := range indices[start:end] {
		view.Rows = append(view.Rows, rows[idx])
		view.Keys = append(view.Keys, e.keyFn(idx, rows[idx]))
	}
	return view
}

// FilteredKeys returns the keys of every row passing the active filters, in
// input order. Selection scoping uses it so "select all" never reaches past
// the filtered set.
func (e *Engine[T]) FilteredKeys(rows []T, state State) []string {
	indices := e.filteredIndices(rows, state.Filters)
	keys := make([]string, len(indices))
	for i, idx := range indices {
		keys[i] = e.keyFn(idx, rows[idx])
	}
	return keys
}

// FilteredRows returns every row passing the active filters in the current
// sort order. Bulk summaries (charts, counts) consume this instead of the
// paginated view.
func (e *Engine[T]) FilteredRows(rows []T, state State) []T {
	indices := e.filteredIndices(rows, state.Filters)
	e.sortIndices(rows, indices, state.Sort)
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = rows[idx]
	}
	return out
}

func (e *Engine[T]) filteredIndices(rows []T, filters map[string]any) []int {
	indices := make([]int, 0, len(rows))
	for i := range rows {
		if e.rowMatches(rows[i], filters) {
			indices = append(indices, i)
		}
	}
	return indices
}

// rowMatches applies every active filter conjunctively. Filters referencing
// unknown or non-filterable columns are ignored rather than failing the row.
func (e *Engine[T]) rowMatches(row T, filters map[string]any) bool {
	for columnID, want := range filters {
		col, ok := e.Column(columnID)
		if !ok || !col.Filterable || col.Accessor == nil {
			continue
		}
		if !matchValue(col.Match, col.Accessor(row), want) {
			return false
		}
	}
	return true
}

// sortIndices stably orders indices by the active sort column. A descriptor
// referencing an unknown column is a no-op, matching the documented fallback
// to unsorted output.
func (e *Engine[T]) sortIndices(rows []T, indices []int, sortState SortState) {
	if sortState.Direction == SortNone || sortState.ColumnID == "" {
		return
	}
	col, ok := e.Column(sortState.ColumnID)
	if !ok || col.Accessor == nil {
		return
	}
	compare := col.Compare
	if compare == nil {
		compare = CompareValues
	}
	desc := sortState.Direction == SortDesc
	sort.SliceStable(indices, func(i, j int) bool {
		c := compare(col.Accessor(rows[indices[i]]), col.Accessor(rows[indices[j]]))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// matchValue compares a cell against a filter value using the column's match
// mode. Comparison happens on formatted values, case-insensitively, so
// numeric and string filters behave the same way they display.
func matchValue(mode MatchMode, cell, want any) bool {
	cellText := strings.ToLower(FormatValue(cell))
	wantText := strings.ToLower(FormatValue(want))
	switch mode {
	case MatchPrefix:
		return strings.HasPrefix(cellText, wantText)
	case MatchContains:
		return strings.Contains(cellText, wantText)
	default:
		return cellText == wantText
	}
}
