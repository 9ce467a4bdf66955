package datatable

// State transitions. Every method below is a pure function from the current
// state to the next one: the receiver is left untouched and maps are copied
// before mutation. Table applies transitions under its lock and then
// rematerializes, so any State a caller can observe satisfies the invariants
// from types.go.

func (s State) clone() State {
	next := s
	next.Filters = make(map[string]any, len(s.Filters))
	for k, v := range s.Filters {
		next.Filters[k] = v
	}
	next.Selected = make(map[string]struct{}, len(s.Selected))
	for k := range s.Selected {
		next.Selected[k] = struct{}{}
	}
	return next
}

// WithSortToggled cycles the sort descriptor for a column through
// unsorted -> asc -> desc -> unsorted. Toggling a different column starts a
// fresh ascending sort.
func (s State) WithSortToggled(columnID string) State {
	next := s.clone()
	if s.Sort.ColumnID != columnID {
		next.Sort = SortState{ColumnID: columnID, Direction: SortAsc}
		return next
	}
	switch s.Sort.Direction {
	case SortAsc:
		next.Sort = SortState{ColumnID: columnID, Direction: SortDesc}
	case SortDesc:
		next.Sort = SortState{}
	default:
		next.Sort = SortState{ColumnID: columnID, Direction: SortAsc}
	}
	return next
}

// WithSort sets an explicit sort descriptor. SortNone clears it.
func (s State) WithSort(columnID string, direction SortDirection) State {
	next := s.clone()
	if direction == SortNone || columnID == "" {
		next.Sort = SortState{}
		return next
	}
	next.Sort = SortState{ColumnID: columnID, Direction: direction}
	return next
}

// WithFilter replaces or clears exactly one filter. A nil value removes the
// filter. Changing the visible set invalidates the old page position, so the
// page index resets to zero.
func (s State) WithFilter(columnID string, value any) State {
	next := s.clone()
	if value == nil {
		delete(next.Filters, columnID)
	} else {
		next.Filters[columnID] = value
	}
	next.Page.Index = 0
	return next
}

// WithoutFilters drops every active filter and resets the page index.
func (s State) WithoutFilters() State {
	next := s.clone()
	next.Filters = map[string]any{}
	next.Page.Index = 0
	return next
}

// WithPageSize changes the page size and resets the index to the first page.
func (s State) WithPageSize(size int) State {
	next := s.clone()
	next.Page = PageState{Index: 0, Size: size}
	return next
}

// WithPageIndex moves to the requested page. Negative indices floor at zero;
// the upper bound is clamped during materialization because it depends on the
// filtered row count.
func (s State) WithPageIndex(index int) State {
	next := s.clone()
	if index < 0 {
		index = 0
	}
	next.Page.Index = index
	return next
}

// WithSelectionToggled flips the membership of one row key.
func (s State) WithSelectionToggled(key string) State {
	next := s.clone()
	if _, ok := next.Selected[key]; ok {
		delete(next.Selected, key)
	} else {
		next.Selected[key] = struct{}{}
	}
	return next
}

// WithSelection marks the given keys selected or deselected, leaving other
// keys untouched.
func (s State) WithSelection(keys []string, selected bool) State {
	next := s.clone()
	for _, key := range keys {
		if selected {
			next.Selected[key] = struct{}{}
		} else {
			delete(next.Selected, key)
		}
	}
	return next
}

// WithoutSelection clears the selection entirely.
func (s State) WithoutSelection() State {
	next := s.clone()
	next.Selected = map[string]struct{}{}
	return next
}

// withSelectionPruned drops selected keys that fell out of the given key set.
// Called after every rematerialization so the selection only ever references
// rows in the currently materialized row set.
func (s State) withSelectionPruned(validKeys []string) State {
	if len(s.Selected) == 0 {
		return s
	}
	valid := make(map[string]struct{}, len(validKeys))
	for _, key := range validKeys {
		valid[key] = struct{}{}
	}
	next := s.clone()
	for key := range next.Selected {
		if _, ok := valid[key]; !ok {
			delete(next.Selected, key)
		}
	}
	return next
}
