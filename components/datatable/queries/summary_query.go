package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// SummaryRequest configures a summary chart render.
type SummaryRequest struct {
	Config datatable.SummaryChartConfig
}

type summaryService interface {
	RenderSummary(ctx context.Context, cfg datatable.SummaryChartConfig) (string, error)
}

// SummaryQuery renders the summary chart for the current filtered rows.
type SummaryQuery struct {
	service summaryService
}

// NewSummaryQuery builds the query.
func NewSummaryQuery(service summaryService) *SummaryQuery {
	return &SummaryQuery{service: service}
}

var _ gocommand.Querier[SummaryRequest, string] = (*SummaryQuery)(nil)

// Query renders the chart HTML snippet.
func (q *SummaryQuery) Query(ctx context.Context, req SummaryRequest) (string, error) {
	return q.service.RenderSummary(ctx, req.Config)
}
