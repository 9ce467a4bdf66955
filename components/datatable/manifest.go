package datatable

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML/JSON manifest describing table definitions.
type ManifestDocument struct {
	Version string          `json:"version" yaml:"version"`
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Package string          `json:"package,omitempty" yaml:"package,omitempty"`
	Tables  []ManifestTable `json:"tables" yaml:"tables"`
	Source  string          `json:"-" yaml:"-"`
}

// ManifestTable describes a single table entry within a manifest.
type ManifestTable struct {
	Definition  Definition `json:"definition" yaml:"definition"`
	Maintainers []string   `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the
// registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("datatable: manifest document is nil")
	}
	for _, table := range doc.Tables {
		if err := r.Register(table.Definition); err != nil {
			return fmt.Errorf("datatable: register table %s from %s: %w", table.Definition.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("datatable: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("datatable: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader. YAML and JSON are both
// accepted.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("datatable: manifest is empty")
		}
		return nil, fmt.Errorf("datatable: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteManifest serializes the document as YAML to the given path.
func WriteManifest(path string, doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("datatable: manifest document is nil")
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("datatable: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("datatable: write manifest %s: %w", path, err)
	}
	return nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("datatable: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Tables))
	for idx, table := range doc.Tables {
		if table.Definition.Code == "" {
			return fmt.Errorf("datatable: manifest table at index %d is missing definition.code", idx)
		}
		if table.Definition.Name == "" {
			return fmt.Errorf("datatable: manifest table %s missing definition.name", table.Definition.Code)
		}
		if len(table.Definition.Columns) == 0 {
			return fmt.Errorf("datatable: manifest table %s has no columns", table.Definition.Code)
		}
		if _, exists := seen[table.Definition.Code]; exists {
			return fmt.Errorf("datatable: manifest duplicates table code %s", table.Definition.Code)
		}
		seen[table.Definition.Code] = struct{}{}
	}
	return nil
}

func (doc *ManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
