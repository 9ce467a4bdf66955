package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ShareSelectionInput requests a share of the current selection as JSON.
type ShareSelectionInput struct{}

type shareService interface {
	Share(ctx context.Context) error
}

// ShareSelectionCommand wraps Controller.Share.
type ShareSelectionCommand struct {
	service   shareService
	telemetry Telemetry
}

// NewShareSelectionCommand creates the command.
func NewShareSelectionCommand(service shareService, telemetry Telemetry) *ShareSelectionCommand {
	return &ShareSelectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ShareSelectionInput] = (*ShareSelectionCommand)(nil)

// Execute delegates to the table controller.
func (c *ShareSelectionCommand) Execute(ctx context.Context, _ ShareSelectionInput) error {
	if c.service == nil {
		return errors.New("share command requires service")
	}
	if err := c.service.Share(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.selection.share", nil)
	return nil
}
