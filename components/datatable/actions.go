package datatable

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ExportFilename is the fixed artifact name used by ExportCSV.
const ExportFilename = "exported_rows.csv"

// NoticeLevel classifies user-visible notices raised by bulk actions.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeWarn  NoticeLevel = "warn"
	NoticeError NoticeLevel = "error"
)

// Notifier surfaces non-fatal notices to the user (empty selection, blocked
// popup, clipboard fallback).
type Notifier interface {
	Notify(ctx context.Context, level NoticeLevel, message string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, NoticeLevel, string) {}

// FileSaver persists a named artifact through the host environment's
// file-save mechanism.
type FileSaver interface {
	Save(ctx context.Context, filename string, data []byte) error
}

// PrintSurface opens a viewing surface (new window, spool file) and sends it
// to the environment's print mechanism. Open may fail when the surface is
// blocked.
type PrintSurface interface {
	Print(ctx context.Context, document []byte) error
}

// ShareTarget hands a serialized payload to a native share capability.
type ShareTarget interface {
	Share(ctx context.Context, payload string) error
}

// Clipboard is the fallback share path when no native target exists.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ActionsOptions configures a bulk-action dispatcher. Environment
// collaborators may be nil; the dispatcher degrades to notices instead of
// failing.
type ActionsOptions[T any] struct {
	// Columns is the column model used for headers and cell values. Required.
	Columns []Column[T]
	// Title labels the print document.
	Title string

	Saver     FileSaver
	Surface   PrintSurface
	Share     ShareTarget
	Clipboard Clipboard
	Notifier  Notifier
	Renderer  Renderer
	Telemetry Telemetry
}

// Actions operates on the currently selected row subset, independent of
// engine state. Errors from the environment never propagate: they degrade to
// notices so the table stays interactive.
type Actions[T any] struct {
	columns   []Column[T]
	title     string
	saver     FileSaver
	surface   PrintSurface
	share     ShareTarget
	clipboard Clipboard
	notifier  Notifier
	renderer  Renderer
	telemetry Telemetry
}

// NewActions validates the column model and builds a dispatcher.
func NewActions[T any](opts ActionsOptions[T]) (*Actions[T], error) {
	if len(opts.Columns) == 0 {
		return nil, errMissingColumns
	}
	columns, err := normalizeColumns(opts.Columns)
	if err != nil {
		return nil, err
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.Title == "" {
		opts.Title = "Selected rows"
	}
	return &Actions[T]{
		columns:   columns,
		title:     opts.Title,
		saver:     opts.Saver,
		surface:   opts.Surface,
		share:     opts.Share,
		clipboard: opts.Clipboard,
		notifier:  opts.Notifier,
		renderer:  opts.Renderer,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}, nil
}

// dataColumns drops the reserved selection/actions columns and hidden
// columns; only data cells belong in exported artifacts.
func (a *Actions[T]) dataColumns() []Column[T] {
	cols := make([]Column[T], 0, len(a.columns))
	for _, col := range a.columns {
		if col.ID == ColumnSelect || col.ID == ColumnActions || col.Hidden || col.Accessor == nil {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

// ExportCSV serializes the selected rows to a delimited artifact named
// ExportFilename: one header line of column labels, one line per row, string
// values quoted. An empty selection raises a notice and returns nil.
func (a *Actions[T]) ExportCSV(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		a.emptySelection(ctx, "export")
		return nil
	}
	if a.saver == nil {
		a.environment(ctx, "export", &EnvironmentError{Op: "file save", Err: fmt.Errorf("no saver configured")})
		return nil
	}
	document := a.csvDocument(rows)
	if err := a.saver.Save(ctx, ExportFilename, document); err != nil {
		a.environment(ctx, "export", &EnvironmentError{Op: "file save", Err: err})
		return nil
	}
	a.telemetry.Record(ctx, "datatable.action.export", map[string]any{
		"rows":     len(rows),
		"filename": ExportFilename,
	})
	return nil
}

// csvDocument builds the export payload. String values are always quoted
// (with embedded quotes doubled); numbers, booleans, and empty cells stay
// bare, matching the documented export shape.
func (a *Actions[T]) csvDocument(rows []T) []byte {
	cols := a.dataColumns()
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteField(col.Label()))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		for i, col := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(col.Accessor(row)))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func csvField(v any) string {
	if _, isString := v.(string); isString {
		return quoteField(FormatValue(v))
	}
	return FormatValue(v)
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Print renders the selected rows as an HTML table and sends it to the print
// surface. A blocked surface degrades to a notice; it never panics or
// returns a hard error.
func (a *Actions[T]) Print(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		a.emptySelection(ctx, "print")
		return nil
	}
	if a.surface == nil {
		a.environment(ctx, "print", &EnvironmentError{Op: "print surface", Err: fmt.Errorf("no surface configured")})
		return nil
	}
	document, err := a.printDocument(rows)
	if err != nil {
		return err
	}
	if err := a.surface.Print(ctx, document); err != nil {
		a.environment(ctx, "print", &EnvironmentError{Op: "print surface", Err: err})
		return nil
	}
	a.telemetry.Record(ctx, "datatable.action.print", map[string]any{"rows": len(rows)})
	return nil
}

func (a *Actions[T]) printDocument(rows []T) ([]byte, error) {
	cols := a.dataColumns()
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Label()
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(cols))
		for j, col := range cols {
			line[j] = FormatValue(col.Accessor(row))
		}
		cells[i] = line
	}
	renderer := a.renderer
	if renderer == nil {
		r, err := NewPrintRenderer()
		if err != nil {
			return nil, err
		}
		renderer = r
	}
	html, err := renderer.Render("print", map[string]any{
		"title":   a.title,
		"headers": headers,
		"rows":    cells,
	})
	if err != nil {
		return nil, fmt.Errorf("datatable: render print document: %w", err)
	}
	return []byte(html), nil
}

// ShareJSON serializes the selected rows to JSON and hands it to the native
// share target, falling back to the clipboard. Both failures degrade to
// notices.
func (a *Actions[T]) ShareJSON(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		a.emptySelection(ctx, "share")
		return nil
	}
	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("datatable: marshal selection: %w", err)
	}
	if a.share != nil {
		if err := a.share.Share(ctx, string(payload)); err == nil {
			a.telemetry.Record(ctx, "datatable.action.share", map[string]any{"rows": len(rows), "via": "native"})
			return nil
		}
	}
	if a.clipboard == nil {
		a.environment(ctx, "share", &EnvironmentError{Op: "share", Err: fmt.Errorf("no share target or clipboard configured")})
		return nil
	}
	if err := a.clipboard.WriteText(ctx, string(payload)); err != nil {
		a.environment(ctx, "share", &EnvironmentError{Op: "clipboard", Err: err})
		return nil
	}
	a.notifier.Notify(ctx, NoticeInfo, "Selection copied to clipboard.")
	a.telemetry.Record(ctx, "datatable.action.share", map[string]any{"rows": len(rows), "via": "clipboard"})
	return nil
}

func (a *Actions[T]) emptySelection(ctx context.Context, action string) {
	a.notifier.Notify(ctx, NoticeInfo, "Select at least one row first.")
	a.telemetry.Record(ctx, "datatable.action.empty_selection", map[string]any{
		"action": action,
		"error":  ErrEmptySelection.Error(),
	})
}

func (a *Actions[T]) environment(ctx context.Context, action string, err *EnvironmentError) {
	a.notifier.Notify(ctx, NoticeWarn, fmt.Sprintf("Could not %s: %v.", action, err.Err))
	a.telemetry.Record(ctx, "datatable.action.environment_error", map[string]any{
		"action": action,
		"error":  err.Error(),
	})
}
