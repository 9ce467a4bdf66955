package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datatable/components/datatable/commands"
)

// Executor is the command surface transports call into. Router glue and
// background jobs depend on this interface instead of concrete commands.
type Executor interface {
	Export(ctx context.Context, msg commands.ExportSelectionInput) error
	Print(ctx context.Context, msg commands.PrintSelectionInput) error
	Share(ctx context.Context, msg commands.ShareSelectionInput) error
	Search(ctx context.Context, msg commands.SearchInput) error
	ClearSearch(ctx context.Context, msg commands.ClearSearchInput) error
}

// CommandExecutor adapts concrete commanders to the Executor interface.
type CommandExecutor struct {
	ExportCommand      gocommand.Commander[commands.ExportSelectionInput]
	PrintCommand       gocommand.Commander[commands.PrintSelectionInput]
	ShareCommand       gocommand.Commander[commands.ShareSelectionInput]
	SearchCommand      gocommand.Commander[commands.SearchInput]
	ClearSearchCommand gocommand.Commander[commands.ClearSearchInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Export(ctx context.Context, msg commands.ExportSelectionInput) error {
	if e.ExportCommand == nil {
		return errors.New("httpapi: export command not configured")
	}
	return e.ExportCommand.Execute(ctx, msg)
}

func (e *CommandExecutor) Print(ctx context.Context, msg commands.PrintSelectionInput) error {
	if e.PrintCommand == nil {
		return errors.New("httpapi: print command not configured")
	}
	return e.PrintCommand.Execute(ctx, msg)
}

func (e *CommandExecutor) Share(ctx context.Context, msg commands.ShareSelectionInput) error {
	if e.ShareCommand == nil {
		return errors.New("httpapi: share command not configured")
	}
	return e.ShareCommand.Execute(ctx, msg)
}

func (e *CommandExecutor) Search(ctx context.Context, msg commands.SearchInput) error {
	if e.SearchCommand == nil {
		return errors.New("httpapi: search command not configured")
	}
	return e.SearchCommand.Execute(ctx, msg)
}

func (e *CommandExecutor) ClearSearch(ctx context.Context, msg commands.ClearSearchInput) error {
	if e.ClearSearchCommand == nil {
		return errors.New("httpapi: clear search command not configured")
	}
	return e.ClearSearchCommand.Execute(ctx, msg)
}
