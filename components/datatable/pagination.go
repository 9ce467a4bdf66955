package datatable

// Window models the pager controls: the run of page numbers around the
// current page, jump-by-five shortcuts, and ellipsis markers. Pages are
// 1-based because this is a display artifact, not engine state. The layout
// is a display policy; correctness only requires that SetPageIndex is
// called with valid indices.
type Window struct {
	Current     int
	Total       int
	Pages       []int // contiguous run starting at the current page
	LeadingGap  bool  // ellipsis between page 2 and Pages[0]
	TrailingGap bool  // ellipsis between the last shown page and Total-1
	JumpBack    bool  // show a "back 5 pages" control
	JumpForward bool  // show a "forward 5 pages" control
}

// PageWindow computes the pager layout for a 1-based current page. The
// window shows the current page plus the next two, a back-5 control once the
// current page passes 5, and a forward-5 control while a 5-page jump stays
// in range. Page 1 and the final page are always rendered by the host, so
// gaps are reported relative to them.
func PageWindow(current, total int) Window {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	w := Window{
		Current:     current,
		Total:       total,
		JumpBack:    current > 5,
		JumpForward: current+5 <= total,
	}
	high := current + 2
	if high > total {
		high = total
	}
	for page := current; page <= high; page++ {
		w.Pages = append(w.Pages, page)
	}
	w.LeadingGap = w.Pages[0] > 2
	w.TrailingGap = w.Pages[len(w.Pages)-1] < total-1
	return w
}
