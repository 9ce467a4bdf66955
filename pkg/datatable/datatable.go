package datatable

import (
	core "github.com/goliatone/go-datatable/components/datatable"
)

// Row is the dynamic row shape used by registry-built tables.
type Row = core.Row

// Table exposes the underlying components/datatable table over dynamic rows.
type Table = core.Table[Row]

// Options re-export for convenience.
type Options = core.Options[Row]

// Controller re-exports the transport-facing controller.
type Controller = core.Controller

// ControllerOptions re-export for convenience.
type ControllerOptions = core.ControllerOptions

// Registry re-exports the table definition registry.
type Registry = core.Registry

// Definition re-exports the declarative table definition.
type Definition = core.Definition

// ColumnSpec re-exports the declarative column model.
type ColumnSpec = core.ColumnSpec

// NewTable proxies to the internal constructor.
func NewTable(opts Options) (*Table, error) {
	return core.New(opts)
}

// NewController proxies to the internal constructor.
func NewController(opts ControllerOptions) (*Controller, error) {
	return core.NewController(opts)
}

// NewRegistry proxies to the internal constructor.
func NewRegistry() *Registry {
	return core.NewRegistry()
}
