package datatable

import (
	"context"
	"fmt"
	"testing"
)

func newRowTable(t *testing.T, n int) *Table[Row] {
	t.Helper()
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{
			"id":     fmt.Sprintf("ord-%02d", i),
			"status": map[bool]string{true: "paid", false: "pending"}[i%2 == 0],
			"total":  float64(i * 10),
		})
	}
	table, err := New(Options[Row]{
		ID: "orders",
		Columns: []Column[Row]{
			{ID: "id", Accessor: func(r Row) any { return r["id"] }},
			{ID: "status", Accessor: func(r Row) any { return r["status"] }, Filterable: true},
			{ID: "total", Title: "Total", Accessor: func(r Row) any { return r["total"] }, Sortable: true, Compare: CompareNumeric},
			{ID: "internal", Accessor: func(r Row) any { return nil }, Hidden: true},
		},
		Rows:    rows,
		KeyFunc: func(_ int, r Row) string { return r["id"].(string) },
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return table
}

func newRowController(t *testing.T, opts ControllerOptions) *Controller {
	t.Helper()
	if opts.Table == nil {
		opts.Table = newRowTable(t, 25)
	}
	controller, err := NewController(opts)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return controller
}

func TestControllerRequiresTable(t *testing.T) {
	if _, err := NewController(ControllerOptions{}); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestControllerPagePayload(t *testing.T) {
	c := newRowController(t, ControllerOptions{})
	payload := c.Page(context.Background())

	if payload.TableID != "orders" {
		t.Fatalf("unexpected table id %q", payload.TableID)
	}
	if payload.Total != 25 || payload.Filtered != 25 {
		t.Fatalf("unexpected totals %d/%d", payload.Filtered, payload.Total)
	}
	if payload.PageIndex != 0 || payload.PageCount != 3 {
		t.Fatalf("unexpected paging %d/%d", payload.PageIndex, payload.PageCount)
	}
	if len(payload.Rows) != 10 || len(payload.Keys) != 10 {
		t.Fatalf("expected one page of 10 rows, got %d rows %d keys", len(payload.Rows), len(payload.Keys))
	}
	// hidden columns never appear in the header labels
	want := []string{"id", "status", "Total"}
	if len(payload.Columns) != len(want) {
		t.Fatalf("unexpected columns %v", payload.Columns)
	}
	for i, label := range want {
		if payload.Columns[i] != label {
			t.Fatalf("column %d: want %q, got %q", i, label, payload.Columns[i])
		}
	}
	if payload.SearchActive {
		t.Fatalf("search should be inactive without an adapter")
	}
	if payload.Window.Current != 1 {
		t.Fatalf("window should start at page 1, got %d", payload.Window.Current)
	}
}

func TestControllerSortAndFilter(t *testing.T) {
	ctx := context.Background()
	c := newRowController(t, ControllerOptions{})

	c.Sort(ctx, "total", SortDesc)
	payload := c.Page(ctx)
	if payload.Rows[0]["id"] != "ord-24" {
		t.Fatalf("expected highest total first, got %v", payload.Rows[0]["id"])
	}

	c.Filter(ctx, "status", "paid")
	payload = c.Page(ctx)
	if payload.Filtered != 13 || payload.Total != 25 {
		t.Fatalf("expected 13 of 25 after filter, got %d/%d", payload.Filtered, payload.Total)
	}

	c.Filter(ctx, "status", nil)
	if got := c.Page(ctx).Filtered; got != 25 {
		t.Fatalf("expected filter cleared, got %d", got)
	}
}

func TestControllerPaginate(t *testing.T) {
	ctx := context.Background()
	c := newRowController(t, ControllerOptions{})

	if err := c.Paginate(ctx, 2, 0); err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if got := c.Page(ctx).PageIndex; got != 2 {
		t.Fatalf("expected page index 2, got %d", got)
	}

	if err := c.Paginate(ctx, 0, 25); err != nil {
		t.Fatalf("paginate with size: %v", err)
	}
	payload := c.Page(ctx)
	if payload.PageCount != 1 || len(payload.Rows) != 25 {
		t.Fatalf("expected single page of 25, got count %d rows %d", payload.PageCount, len(payload.Rows))
	}

	if err := c.Paginate(ctx, 0, 7); err == nil {
		t.Fatalf("expected error for disallowed page size")
	}
}

func TestControllerSelectDispatch(t *testing.T) {
	ctx := context.Background()
	c := newRowController(t, ControllerOptions{})

	if err := c.Select(ctx, SelectionRequest{}); err == nil {
		t.Fatalf("expected error for empty selection request")
	}

	if err := c.Select(ctx, SelectionRequest{Key: "ord-03"}); err != nil {
		t.Fatalf("toggle key: %v", err)
	}
	if got := c.Page(ctx).Selected; len(got) != 1 || got[0] != "ord-03" {
		t.Fatalf("unexpected selection %v", got)
	}

	if err := c.Select(ctx, SelectionRequest{AllPage: true}); err != nil {
		t.Fatalf("toggle page: %v", err)
	}
	if got := len(c.Page(ctx).Selected); got != 10 {
		t.Fatalf("expected page selection of 10, got %d", got)
	}

	if err := c.Select(ctx, SelectionRequest{AllRows: true}); err != nil {
		t.Fatalf("select all: %v", err)
	}
	if got := len(c.SelectedRows(ctx)); got != 25 {
		t.Fatalf("expected 25 selected rows, got %d", got)
	}

	if err := c.Select(ctx, SelectionRequest{Clear: true}); err != nil {
		t.Fatalf("clear selection: %v", err)
	}
	if got := len(c.Page(ctx).Selected); got != 0 {
		t.Fatalf("expected empty selection, got %d", got)
	}
}

func TestControllerRejectsMissingCollaborators(t *testing.T) {
	ctx := context.Background()
	c := newRowController(t, ControllerOptions{})

	if err := c.Export(ctx); err == nil {
		t.Fatalf("expected error without bulk actions")
	}
	if err := c.Print(ctx); err == nil {
		t.Fatalf("expected error without bulk actions")
	}
	if err := c.Share(ctx); err == nil {
		t.Fatalf("expected error without bulk actions")
	}
	if err := c.Search(ctx, SearchDescriptor{}); err == nil {
		t.Fatalf("expected error without search adapter")
	}
	if err := c.ClearSearch(ctx); err == nil {
		t.Fatalf("expected error without search adapter")
	}
	if _, err := c.RenderSummary(ctx, SummaryChartConfig{GroupBy: "status"}); err == nil {
		t.Fatalf("expected error without chart")
	}
}

func TestControllerRenderSummary(t *testing.T) {
	ctx := context.Background()
	table := newRowTable(t, 25)
	chart, err := NewSummaryChart(table.Columns())
	if err != nil {
		t.Fatalf("new chart: %v", err)
	}
	c := newRowController(t, ControllerOptions{Table: table, Chart: chart})

	html, err := c.RenderSummary(ctx, SummaryChartConfig{Title: "Orders", GroupBy: "status"})
	if err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if html == "" {
		t.Fatalf("expected rendered markup")
	}
}
