package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// SearchInput is the transport shape of a committed search.
type SearchInput struct {
	Column    string `json:"column,omitempty"`
	Value     string `json:"value,omitempty"`
	Operator  string `json:"operator,omitempty"`
	TimeRange string `json:"time_range,omitempty"`
}

// Descriptor converts the input into a search descriptor.
func (in SearchInput) Descriptor() datatable.SearchDescriptor {
	return datatable.SearchDescriptor{
		Column:    in.Column,
		Value:     in.Value,
		Operator:  datatable.Operator(in.Operator),
		TimeRange: datatable.TimeRange(in.TimeRange),
	}
}

type searchService interface {
	Search(ctx context.Context, desc datatable.SearchDescriptor) error
}

// SearchCommand translates incoming requests into search triggers and emits
// telemetry so operators can observe search activity.
type SearchCommand struct {
	service   searchService
	telemetry Telemetry
}

// NewSearchCommand creates a command instance.
func NewSearchCommand(service searchService, telemetry Telemetry) *SearchCommand {
	return &SearchCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SearchInput] = (*SearchCommand)(nil)

// Execute delegates to the search adapter.
func (c *SearchCommand) Execute(ctx context.Context, msg SearchInput) error {
	if c.service == nil {
		return errors.New("search command requires service")
	}
	if err := c.service.Search(ctx, msg.Descriptor()); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.search.trigger", map[string]any{
		"column":     msg.Column,
		"operator":   msg.Operator,
		"time_range": msg.TimeRange,
	})
	return nil
}

// ClearSearchInput requests an explicit search clear.
type ClearSearchInput struct{}

type clearSearchService interface {
	ClearSearch(ctx context.Context) error
}

// ClearSearchCommand wraps Controller.ClearSearch.
type ClearSearchCommand struct {
	service   clearSearchService
	telemetry Telemetry
}

// NewClearSearchCommand creates the command.
func NewClearSearchCommand(service clearSearchService, telemetry Telemetry) *ClearSearchCommand {
	return &ClearSearchCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClearSearchInput] = (*ClearSearchCommand)(nil)

// Execute delegates to the search adapter.
func (c *ClearSearchCommand) Execute(ctx context.Context, _ ClearSearchInput) error {
	if c.service == nil {
		return errors.New("clear search command requires service")
	}
	if err := c.service.ClearSearch(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.search.clear", nil)
	return nil
}
