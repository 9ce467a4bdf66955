package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// ExportSelectionInput requests a CSV export of the current selection.
type ExportSelectionInput struct{}

type exportService interface {
	Export(ctx context.Context) error
}

// ExportSelectionCommand wraps Controller.Export so transports can invoke
// bulk exports without linking against the controller directly.
type ExportSelectionCommand struct {
	service   exportService
	telemetry Telemetry
}

// NewExportSelectionCommand creates a command instance.
func NewExportSelectionCommand(service exportService, telemetry Telemetry) *ExportSelectionCommand {
	return &ExportSelectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ExportSelectionInput] = (*ExportSelectionCommand)(nil)

// Execute delegates to the table controller.
func (c *ExportSelectionCommand) Execute(ctx context.Context, _ ExportSelectionInput) error {
	if c.service == nil {
		return errors.New("export command requires service")
	}
	if err := c.service.Export(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.selection.export", map[string]any{
		"filename": datatable.ExportFilename,
	})
	return nil
}
