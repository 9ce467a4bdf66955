package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// PageRequest asks for the current materialized page.
type PageRequest struct{}

type pageService interface {
	Page(ctx context.Context) datatable.PagePayload
}

// PageQuery executes read-only page resolution.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageRequest, datatable.PagePayload] = (*PageQuery)(nil)

// Query resolves the current page payload.
func (q *PageQuery) Query(ctx context.Context, _ PageRequest) (datatable.PagePayload, error) {
	return q.service.Page(ctx), nil
}
