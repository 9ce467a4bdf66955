package datatable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RowValidator validates row payloads against the per-column JSON schemas a
// table definition declares.
type RowValidator interface {
	Validate(def Definition, row Row) error
}

// JSONSchemaValidator compiles column schemas and validates row maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks every schema-bearing column of the definition against the
// corresponding row value. Columns without a schema are skipped; absent row
// values are skipped too, since presence requirements belong in the schema of
// a wrapping object.
func (v *JSONSchemaValidator) Validate(def Definition, row Row) error {
	for _, spec := range def.Columns {
		if len(spec.Schema) == 0 {
			continue
		}
		value, ok := row[spec.ID]
		if !ok {
			continue
		}
		schema, err := v.schemaFor(def.Code, spec)
		if err != nil {
			return err
		}
		normalized, err := normalizeJSONValue(value)
		if err != nil {
			return fmt.Errorf("datatable: normalize %s.%s: %w", def.Code, spec.ID, err)
		}
		if err := schema.Validate(normalized); err != nil {
			return fmt.Errorf("datatable: row value %s.%s failed validation: %w", def.Code, spec.ID, err)
		}
	}
	return nil
}

// CompileDefinition eagerly compiles every column schema, so tooling can
// reject a bad manifest without sample rows.
func (v *JSONSchemaValidator) CompileDefinition(def Definition) error {
	for _, spec := range def.Columns {
		if len(spec.Schema) == 0 {
			continue
		}
		if _, err := v.schemaFor(def.Code, spec); err != nil {
			return err
		}
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(code string, spec ColumnSpec) (*jsonschema.Schema, error) {
	key := code + ":" + spec.ID
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(spec.Schema)
	if err != nil {
		return nil, fmt.Errorf("datatable: marshal schema %s: %w", key, err)
	}
	compiler := jsonschema.NewCompiler()
	name := key + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("datatable: load schema %s: %w", key, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("datatable: compile schema %s: %w", key, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// normalizeJSONValue round-trips a value through JSON so schema validation
// sees canonical types (float64 numbers, map[string]any objects).
func normalizeJSONValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
