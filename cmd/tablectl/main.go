package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"

	datatable "github.com/goliatone/go-datatable/components/datatable"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a table definition from a sample row and record it in a manifest."`
	Validate validateCmd `cmd:"" help:"Validate a manifest: definitions, column specs, and JSON schemas."`
}

type scaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified table code (e.g. marketplace.table.orders)."`
	Name         string   `help:"Display name for the table (defaults to a title-cased code segment)."`
	Description  string   `help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Table category (marketplace, admin, etc.)."`
	ManifestPath string   `required:"" type:"path" help:"Path to the table manifest YAML file to update."`
	SamplePath   string   `required:"" type:"path" help:"Path to a JSON file holding one representative row object."`
	KeyColumn    string   `help:"Column holding the stable row key (defaults to 'id' when present)."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Overwrite    bool     `help:"Overwrite an existing manifest entry with the same code."`
}

type validateCmd struct {
	ManifestPath string `arg:"" type:"path" help:"Path to the manifest YAML file to validate."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Table scaffolding and manifest validation for go-datatable."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("tablectl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, table := range doc.Tables {
			if table.Definition.Code == cmd.Code {
				return fmt.Errorf("tablectl: manifest already defines table %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	sample, err := loadSampleRow(cmd.SamplePath)
	if err != nil {
		return err
	}
	columns := inferColumns(sample)
	if len(columns) == 0 {
		return fmt.Errorf("tablectl: sample row %s has no fields", cmd.SamplePath)
	}

	name := cmd.Name
	if name == "" {
		name = deriveName(cmd.Code)
	}
	keyColumn := cmd.KeyColumn
	if keyColumn == "" {
		if _, ok := sample["id"]; ok {
			keyColumn = "id"
		}
	}

	entry := datatable.ManifestTable{
		Definition: datatable.Definition{
			Code:        cmd.Code,
			Name:        name,
			Description: cmd.Description,
			Category:    cmd.Category,
			KeyColumn:   keyColumn,
			Columns:     columns,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	if cmd.Overwrite {
		replaced := false
		for idx := range doc.Tables {
			if doc.Tables[idx].Definition.Code == cmd.Code {
				doc.Tables[idx] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Tables = append(doc.Tables, entry)
		}
	} else {
		doc.Tables = append(doc.Tables, entry)
	}

	sort.Slice(doc.Tables, func(i, j int) bool {
		return doc.Tables[i].Definition.Code < doc.Tables[j].Definition.Code
	})

	if err := datatable.WriteManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s (%d columns, key %q)\n", cmd.Code, manifestPath, len(columns), keyColumn)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("tablectl: table code %s must contain at least one '.' segment", cmd.Code)
	}
	return nil
}

func (cmd *validateCmd) Run(_ context.Context) error {
	registry := datatable.NewRegistry()
	doc, err := registry.LoadManifestFile(cmd.ManifestPath)
	if err != nil {
		return err
	}
	validator := datatable.NewJSONSchemaValidator()
	for _, table := range doc.Tables {
		if err := validator.CompileDefinition(table.Definition); err != nil {
			return fmt.Errorf("tablectl: table %s: %w", table.Definition.Code, err)
		}
	}
	fmt.Fprintf(os.Stdout, "✓ %s: %d table(s) valid\n", cmd.ManifestPath, len(doc.Tables))
	return nil
}

func loadOrInitManifest(path string) (*datatable.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := &datatable.ManifestDocument{
				Version: datatable.ManifestVersion,
				Tables:  []datatable.ManifestTable{},
				Source:  path,
			}
			return doc, nil
		}
		return nil, fmt.Errorf("tablectl: stat manifest: %w", err)
	}
	return datatable.ReadManifest(path)
}

func loadSampleRow(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tablectl: read sample row: %w", err)
	}
	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("tablectl: parse sample row JSON: %w", err)
	}
	return row, nil
}

func inferColumns(sample map[string]any) []datatable.ColumnSpec {
	ids := make([]string, 0, len(sample))
	for id := range sample {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	columns := make([]datatable.ColumnSpec, 0, len(ids))
	for _, id := range ids {
		columns = append(columns, datatable.ColumnSpec{
			ID:         id,
			Kind:       inferKind(sample[id]),
			Sortable:   true,
			Filterable: true,
		})
	}
	return columns
}

func inferKind(value any) datatable.ValueKind {
	switch v := value.(type) {
	case bool:
		return datatable.KindBool
	case float64:
		return datatable.KindNumber
	case string:
		if _, ok := datatable.ParseTime(v); ok {
			return datatable.KindTime
		}
		return datatable.KindString
	default:
		return datatable.KindString
	}
}

func deriveName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToCase(slug, strcase.TitleCase, ' ')
}
