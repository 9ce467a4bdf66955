package datatable

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ettle/strcase"
)

// ValueKind drives comparator and match defaults for manifest columns.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindTime   ValueKind = "time"
	KindBool   ValueKind = "bool"
)

// ColumnSpec is the declarative, serializable form of a Column for dynamic
// rows.
type ColumnSpec struct {
	ID         string         `json:"id" yaml:"id"`
	Title      string         `json:"title,omitempty" yaml:"title,omitempty"`
	Kind       ValueKind      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Match      MatchMode      `json:"match,omitempty" yaml:"match,omitempty"`
	Sortable   bool           `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Filterable bool           `json:"filterable,omitempty" yaml:"filterable,omitempty"`
	Hidden     bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Schema     map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Label returns the display title, derived from the ID when unset
// ("booth_name" becomes "Booth Name").
func (spec ColumnSpec) Label() string {
	if spec.Title != "" {
		return spec.Title
	}
	return strcase.ToCase(spec.ID, strcase.TitleCase, ' ')
}

// Column materializes the runtime column for dynamic rows.
func (spec ColumnSpec) Column() Column[Row] {
	id := spec.ID
	col := Column[Row]{
		ID:         id,
		Title:      spec.Label(),
		Accessor:   func(r Row) any { return r[id] },
		Match:      spec.Match,
		Sortable:   spec.Sortable,
		Filterable: spec.Filterable,
		Hidden:     spec.Hidden,
	}
	switch spec.Kind {
	case KindNumber:
		col.Compare = CompareNumeric
	case KindTime:
		col.Compare = CompareTime
	default:
		col.Compare = CompareValues
	}
	return col
}

// Definition names a reusable column model (orders, booths, beauticians...).
type Definition struct {
	Code        string       `json:"code" yaml:"code"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string       `json:"category,omitempty" yaml:"category,omitempty"`
	KeyColumn   string       `json:"key_column,omitempty" yaml:"key_column,omitempty"`
	PageSizes   []int        `json:"page_sizes,omitempty" yaml:"page_sizes,omitempty"`
	Columns     []ColumnSpec `json:"columns" yaml:"columns"`
}

// TableHook lets packages register table definitions during init().
type TableHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []TableHook
)

// RegisterTableHook registers a hook executed against new registries.
func RegisterTableHook(h TableHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores table definitions discoverable via hooks or manifests.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry builds an empty registry and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{definitions: map[string]Definition{}}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered table hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores a table definition. Column models are validated up front
// so a bad manifest fails at load, not at first render.
func (r *Registry) Register(def Definition) error {
	if def.Code == "" {
		return fmt.Errorf("table definition code is required")
	}
	if len(def.Columns) == 0 {
		return fmt.Errorf("table definition %s has no columns", def.Code)
	}
	if _, err := buildColumns(def); err != nil {
		return fmt.Errorf("table definition %s: %w", def.Code, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// Definition fetches a table definition by code.
func (r *Registry) Definition(code string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Definitions returns all registered definitions ordered by code.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

// Columns materializes the runtime column model for a registered definition.
func (r *Registry) Columns(code string) ([]Column[Row], error) {
	def, ok := r.Definition(code)
	if !ok {
		return nil, fmt.Errorf("table definition %s not found", code)
	}
	return buildColumns(def)
}

// NewTable constructs a dynamic-row table from a registered definition.
func (r *Registry) NewTable(code string, rows []Row, opts Options[Row]) (*Table[Row], error) {
	def, ok := r.Definition(code)
	if !ok {
		return nil, fmt.Errorf("table definition %s not found", code)
	}
	columns, err := buildColumns(def)
	if err != nil {
		return nil, err
	}
	opts.Columns = columns
	opts.Rows = rows
	if opts.ID == "" {
		opts.ID = def.Code
	}
	if len(opts.PageSizes) == 0 {
		opts.PageSizes = def.PageSizes
	}
	if opts.KeyFunc == nil && def.KeyColumn != "" {
		key := def.KeyColumn
		opts.KeyFunc = func(index int, row Row) string {
			if v, ok := row[key]; ok && v != nil {
				return FormatValue(v)
			}
			return fmt.Sprintf("row-%d", index)
		}
	}
	return New(opts)
}

func buildColumns(def Definition) ([]Column[Row], error) {
	columns := make([]Column[Row], len(def.Columns))
	for i, spec := range def.Columns {
		columns[i] = spec.Column()
	}
	return normalizeColumns(columns)
}
