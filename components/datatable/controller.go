package datatable

import (
	"context"
	"errors"
	"fmt"
)

// ControllerOptions wires the collaborators a transport needs.
type ControllerOptions struct {
	Table   *Table[Row]
	Search  *SearchAdapter[Row]
	Chart   *SummaryChart[Row]
	Actions *Actions[Row]
}

// Controller exposes transport-friendly operations over a dynamic-row table:
// one place for HTTP handlers and router glue to call without reaching into
// engine internals.
type Controller struct {
	table   *Table[Row]
	search  *SearchAdapter[Row]
	chart   *SummaryChart[Row]
	actions *Actions[Row]
}

// NewController validates the wiring and builds a controller.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Table == nil {
		return nil, errors.New("datatable: controller requires a table")
	}
	return &Controller{
		table:   opts.Table,
		search:  opts.Search,
		chart:   opts.Chart,
		actions: opts.Actions,
	}, nil
}

// PagePayload is the JSON shape served to table transports.
type PagePayload struct {
	TableID      string   `json:"table_id"`
	Columns      []string `json:"columns"`
	Rows         []Row    `json:"rows"`
	Keys         []string `json:"keys"`
	PageIndex    int      `json:"page_index"`
	PageCount    int      `json:"page_count"`
	Filtered     int      `json:"filtered"`
	Total        int      `json:"total"`
	Window       Window   `json:"window"`
	Selected     []string `json:"selected"`
	SearchActive bool     `json:"search_active"`
}

// Page materializes the current view into a transport payload.
func (c *Controller) Page(ctx context.Context) PagePayload {
	view := c.table.View()
	columns := c.table.Columns()
	labels := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.Hidden {
			continue
		}
		labels = append(labels, col.Label())
	}
	payload := PagePayload{
		TableID:   c.table.ID(),
		Columns:   labels,
		Rows:      view.Rows,
		Keys:      view.Keys,
		PageIndex: view.PageIndex,
		PageCount: view.PageCount,
		Filtered:  view.Filtered,
		Total:     view.Total,
		Window:    PageWindow(view.PageIndex+1, view.PageCount),
		Selected:  c.table.SelectedKeys(),
	}
	if c.search != nil {
		payload.SearchActive = c.search.Active()
	}
	return payload
}

// Sort toggles or sets the sort descriptor. An empty direction cycles.
func (c *Controller) Sort(ctx context.Context, columnID string, direction SortDirection) {
	if direction == SortNone {
		c.table.SetSort(ctx, columnID)
		return
	}
	c.table.SetSortDirection(ctx, columnID, direction)
}

// Filter replaces or clears one filter value.
func (c *Controller) Filter(ctx context.Context, columnID string, value any) {
	c.table.SetFilter(ctx, columnID, value)
}

// Paginate moves the page cursor and, when size is non-zero, switches the
// page size.
func (c *Controller) Paginate(ctx context.Context, index, size int) error {
	if size != 0 {
		if err := c.table.SetPageSize(ctx, size); err != nil {
			return err
		}
	}
	c.table.SetPageIndex(ctx, index)
	return nil
}

// SelectionRequest names a selection mutation.
type SelectionRequest struct {
	Key     string `json:"key,omitempty"`
	AllPage bool   `json:"all_page,omitempty"`
	AllRows bool   `json:"all_rows,omitempty"`
	Clear   bool   `json:"clear,omitempty"`
}

// Select applies a selection mutation.
func (c *Controller) Select(ctx context.Context, req SelectionRequest) error {
	switch {
	case req.Clear:
		c.table.ClearSelection(ctx)
	case req.AllPage:
		c.table.ToggleAllOnPage(ctx)
	case req.AllRows:
		c.table.SelectAllFiltered(ctx)
	case req.Key != "":
		c.table.ToggleRow(ctx, req.Key)
	default:
		return errors.New("datatable: selection request is empty")
	}
	return nil
}

// SelectedRows returns the selected rows in display order.
func (c *Controller) SelectedRows(ctx context.Context) []Row {
	return c.table.SelectedRows()
}

// Export runs the CSV bulk action over the current selection.
func (c *Controller) Export(ctx context.Context) error {
	return c.bulk(ctx, func(a *Actions[Row], rows []Row) error { return a.ExportCSV(ctx, rows) })
}

// Print runs the print bulk action over the current selection.
func (c *Controller) Print(ctx context.Context) error {
	return c.bulk(ctx, func(a *Actions[Row], rows []Row) error { return a.Print(ctx, rows) })
}

// Share runs the share bulk action over the current selection.
func (c *Controller) Share(ctx context.Context) error {
	return c.bulk(ctx, func(a *Actions[Row], rows []Row) error { return a.ShareJSON(ctx, rows) })
}

func (c *Controller) bulk(ctx context.Context, run func(*Actions[Row], []Row) error) error {
	if c.actions == nil {
		return errors.New("datatable: controller has no bulk actions configured")
	}
	return run(c.actions, c.table.SelectedRows())
}

// Search triggers a server-side search through the adapter.
func (c *Controller) Search(ctx context.Context, desc SearchDescriptor) error {
	if c.search == nil {
		return errors.New("datatable: controller has no search adapter configured")
	}
	return c.search.Trigger(ctx, desc)
}

// ClearSearch resets the adapter and restores the initial dataset.
func (c *Controller) ClearSearch(ctx context.Context) error {
	if c.search == nil {
		return errors.New("datatable: controller has no search adapter configured")
	}
	return c.search.Clear(ctx)
}

// RenderSummary renders the summary chart over the current filtered rows.
func (c *Controller) RenderSummary(ctx context.Context, cfg SummaryChartConfig) (string, error) {
	if c.chart == nil {
		return "", errors.New("datatable: controller has no chart configured")
	}
	html, err := c.chart.Render(c.table.FilteredRows(), cfg)
	if err != nil {
		return "", fmt.Errorf("datatable: render summary: %w", err)
	}
	return html, nil
}
