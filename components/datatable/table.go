package datatable

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Options configures a Table. Every collaborator is provided via interface so
// applications can swap implementations without importing internals. Missing
// collaborators fall back to safe no-op defaults.
type Options[T any] struct {
	// ID names the table in events and telemetry; defaults to a random UUID.
	ID string
	// Columns is the declarative column model. Required.
	Columns []Column[T]
	// Rows is the initial in-memory dataset. The table never pages over the
	// network; search results replace this set wholesale via ReplaceRows.
	Rows []T
	// PageSizes overrides the allow-list (DefaultPageSizes otherwise).
	PageSizes []int
	// PageSize selects the initial size; must belong to the allow-list.
	PageSize int
	// KeyFunc derives stable row keys from the unfiltered row index.
	KeyFunc func(index int, row T) string

	RefreshHook RefreshHook
	Telemetry   Telemetry
}

// Table owns the engine state for one table instance and exposes the
// interaction layer: every mutation leaves the state internally consistent,
// rematerializes the view, and notifies the refresh hook.
type Table[T any] struct {
	id        string
	engine    *Engine[T]
	hook      RefreshHook
	telemetry Telemetry

	mu    sync.RWMutex
	base  []T // initial dataset, restored when a search clears
	rows  []T // current engine input
	state State
	view  View[T]
}

// New validates the configuration and builds a table. Invalid page sizes and
// column models fail fast with a ConfigurationError.
func New[T any](opts Options[T]) (*Table[T], error) {
	engine, err := NewEngine(opts.Columns,
		WithPageSizes[T](opts.PageSizes...),
		WithKeyFunc(opts.KeyFunc),
	)
	if err != nil {
		return nil, err
	}
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = engine.PageSizes()[0]
	}
	if !engine.AllowsPageSize(pageSize) {
		return nil, configErrorf("page size", "%d is not in the allow-list %v", pageSize, engine.PageSizes())
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	t := &Table[T]{
		id:        opts.ID,
		engine:    engine,
		hook:      opts.RefreshHook,
		telemetry: normalizeTelemetry(opts.Telemetry),
		base:      opts.Rows,
		rows:      opts.Rows,
		state:     NewState(pageSize),
	}
	t.view = engine.Materialize(t.rows, t.state)
	return t, nil
}

// ID returns the table identifier used in events and telemetry.
func (t *Table[T]) ID() string { return t.id }

// Engine exposes the underlying engine for read-only composition (bulk
// actions, charts).
func (t *Table[T]) Engine() *Engine[T] { return t.engine }

// Columns returns the normalized column model.
func (t *Table[T]) Columns() []Column[T] { return t.engine.Columns() }

// View returns the current materialized page.
func (t *Table[T]) View() View[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view
}

// State returns a copy of the current engine state.
func (t *Table[T]) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.clone()
}

// Window returns the pager display model for the current view.
func (t *Table[T]) Window() Window {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return PageWindow(t.view.PageIndex+1, t.view.PageCount)
}

// SetSort cycles the sort descriptor for a column through
// unsorted -> asc -> desc -> unsorted. Sorting an unknown or unsortable
// column is a recorded no-op.
func (t *Table[T]) SetSort(ctx context.Context, columnID string) {
	if !t.sortable(ctx, columnID) {
		return
	}
	t.mu.Lock()
	next := t.state.WithSortToggled(columnID)
	t.mu.Unlock()
	t.apply(ctx, "sort", next)
}

// SetSortDirection applies an explicit sort direction.
func (t *Table[T]) SetSortDirection(ctx context.Context, columnID string, direction SortDirection) {
	if direction != SortNone && !t.sortable(ctx, columnID) {
		return
	}
	t.mu.Lock()
	next := t.state.WithSort(columnID, direction)
	t.mu.Unlock()
	t.apply(ctx, "sort", next)
}

func (t *Table[T]) sortable(ctx context.Context, columnID string) bool {
	col, ok := t.engine.Column(columnID)
	if !ok || !col.Sortable {
		t.telemetry.Record(ctx, "datatable.sort.ignored", map[string]any{
			"table_id":  t.id,
			"column_id": columnID,
		})
		return false
	}
	return true
}

// SetFilter replaces or clears exactly one filter; nil clears. The page
// index resets because the old position is meaningless against a new set.
func (t *Table[T]) SetFilter(ctx context.Context, columnID string, value any) {
	t.mu.Lock()
	next := t.state.WithFilter(columnID, value)
	t.mu.Unlock()
	t.apply(ctx, "filter", next)
}

// ClearFilters removes every active filter.
func (t *Table[T]) ClearFilters(ctx context.Context) {
	t.mu.Lock()
	next := t.state.WithoutFilters()
	t.mu.Unlock()
	t.apply(ctx, "filter", next)
}

// SetPageSize switches the page size and returns to the first page. Sizes
// outside the allow-list are rejected with a ConfigurationError.
func (t *Table[T]) SetPageSize(ctx context.Context, size int) error {
	if !t.engine.AllowsPageSize(size) {
		return configErrorf("page size", "%d is not in the allow-list %v", size, t.engine.PageSizes())
	}
	t.mu.Lock()
	next := t.state.WithPageSize(size)
	t.mu.Unlock()
	t.apply(ctx, "paginate", next)
	return nil
}

// SetPageIndex moves to the requested page, clamped into [0, pageCount-1].
func (t *Table[T]) SetPageIndex(ctx context.Context, index int) {
	t.mu.Lock()
	next := t.state.WithPageIndex(index)
	t.mu.Unlock()
	t.apply(ctx, "paginate", next)
}

// ToggleRow flips the selection of one row key.
func (t *Table[T]) ToggleRow(ctx context.Context, key string) {
	t.mu.Lock()
	next := t.state.WithSelectionToggled(key)
	t.mu.Unlock()
	t.apply(ctx, "select", next)
}

// ToggleAllOnPage selects every row on the current visible page, or clears
// them when the page is already fully selected. Page-scoped on purpose: it
// never reaches rows outside the visible slice.
func (t *Table[T]) ToggleAllOnPage(ctx context.Context) {
	t.mu.Lock()
	allSelected := len(t.view.Keys) > 0
	for _, key := range t.view.Keys {
		if _, ok := t.state.Selected[key]; !ok {
			allSelected = false
			break
		}
	}
	next := t.state.WithSelection(t.view.Keys, !allSelected)
	t.mu.Unlock()
	t.apply(ctx, "select", next)
}

// SelectAllFiltered selects every row in the current filtered set, across
// pages. Rows excluded by filters are never selected.
func (t *Table[T]) SelectAllFiltered(ctx context.Context) {
	t.mu.Lock()
	keys := t.engine.FilteredKeys(t.rows, t.state)
	next := t.state.WithSelection(keys, true)
	t.mu.Unlock()
	t.apply(ctx, "select", next)
}

// ClearSelection drops every selected key.
func (t *Table[T]) ClearSelection(ctx context.Context) {
	t.mu.Lock()
	next := t.state.WithoutSelection()
	t.mu.Unlock()
	t.apply(ctx, "select", next)
}

// SelectedKeys returns the selected row keys in deterministic order.
func (t *Table[T]) SelectedKeys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.state.Selected))
	for key := range t.state.Selected {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SelectedRows materializes the selected subset in the current display
// order. Bulk actions consume this.
func (t *Table[T]) SelectedRows() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.state.Selected) == 0 {
		return nil
	}
	indices := t.engine.filteredIndices(t.rows, t.state.Filters)
	t.engine.sortIndices(t.rows, indices, t.state.Sort)
	var out []T
	for _, idx := range indices {
		if _, ok := t.state.Selected[t.engine.Key(idx, t.rows[idx])]; ok {
			out = append(out, t.rows[idx])
		}
	}
	return out
}

// FilteredRows returns the full filtered set in display order.
func (t *Table[T]) FilteredRows() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.engine.FilteredRows(t.rows, t.state)
}

// ReplaceRows swaps the engine's input set, typically with a server-side
// search result. The page index resets and selections referencing rows
// outside the new set are pruned.
func (t *Table[T]) ReplaceRows(ctx context.Context, rows []T) {
	t.mu.Lock()
	t.rows = rows
	next := t.state.WithPageIndex(0)
	t.mu.Unlock()
	t.apply(ctx, "rows", next)
}

// RestoreRows reverts to the initial dataset after a search clears.
func (t *Table[T]) RestoreRows(ctx context.Context) {
	t.mu.Lock()
	t.rows = t.base
	next := t.state.WithPageIndex(0)
	t.mu.Unlock()
	t.apply(ctx, "rows", next)
}

// Len returns the size of the current unfiltered input set.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// apply installs the next state, rematerializes, prunes the selection to the
// filtered set, and notifies hooks. The stored page index is synced with the
// clamped effective index so state never points past the last page.
func (t *Table[T]) apply(ctx context.Context, reason string, next State) {
	t.mu.Lock()
	view := t.engine.Materialize(t.rows, next)
	next.Page.Index = view.PageIndex
	next = next.withSelectionPruned(t.engine.FilteredKeys(t.rows, next))
	t.state = next
	t.view = view
	event := newTableEvent(t.id, reason)
	event.PageIndex = view.PageIndex
	event.PageCount = view.PageCount
	event.Filtered = view.Filtered
	event.Total = view.Total
	t.mu.Unlock()

	if err := t.hook.TableUpdated(ctx, event); err != nil {
		t.telemetry.Record(ctx, "datatable.hook.error", map[string]any{
			"table_id": t.id,
			"reason":   reason,
			"error":    err.Error(),
		})
	}
	t.telemetry.Record(ctx, "datatable.state."+reason, map[string]any{
		"table_id":   t.id,
		"page_index": event.PageIndex,
		"page_count": event.PageCount,
		"filtered":   event.Filtered,
	})
}
