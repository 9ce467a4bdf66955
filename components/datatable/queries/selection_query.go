package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// SelectionRequest asks for the rows currently selected.
type SelectionRequest struct{}

type selectionService interface {
	SelectedRows(ctx context.Context) []datatable.Row
}

// SelectionQuery fetches the selected rows in display order.
type SelectionQuery struct {
	service selectionService
}

// NewSelectionQuery builds the query.
func NewSelectionQuery(service selectionService) *SelectionQuery {
	return &SelectionQuery{service: service}
}

var _ gocommand.Querier[SelectionRequest, []datatable.Row] = (*SelectionQuery)(nil)

// Query resolves the selected rows.
func (q *SelectionQuery) Query(ctx context.Context, _ SelectionRequest) ([]datatable.Row, error) {
	return q.service.SelectedRows(ctx), nil
}
