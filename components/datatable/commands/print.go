package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// PrintSelectionInput requests a print document for the current selection.
type PrintSelectionInput struct{}

type printService interface {
	Print(ctx context.Context) error
}

// PrintSelectionCommand wraps Controller.Print.
type PrintSelectionCommand struct {
	service   printService
	telemetry Telemetry
}

// NewPrintSelectionCommand creates the command.
func NewPrintSelectionCommand(service printService, telemetry Telemetry) *PrintSelectionCommand {
	return &PrintSelectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PrintSelectionInput] = (*PrintSelectionCommand)(nil)

// Execute delegates to the table controller.
func (c *PrintSelectionCommand) Execute(ctx context.Context, _ PrintSelectionInput) error {
	if c.service == nil {
		return errors.New("print command requires service")
	}
	if err := c.service.Print(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.selection.print", nil)
	return nil
}
