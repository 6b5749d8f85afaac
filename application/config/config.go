// Package config loads the supergraph configuration document: the ordered
// list of subgraphs handed to composition.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dball/federation/domain/entities"
)

// validate is a package-level singleton; constructing a validator per call
// is expensive.
var validate = validator.New()

// Format describes the document shape for tooling: subgraphs keyed by name.
// Decoding goes through Document instead, which additionally keeps the
// document's subgraph order.
type Format struct {
	Subgraphs map[string]SubgraphEntry `json:"subgraphs" jsonschema:"title=Subgraphs,description=Subgraphs taking part in composition keyed by subgraph name."`
}

// Document is a parsed supergraph configuration. Subgraphs appear in
// document order; composition merges them in that order.
type Document struct {
	Subgraphs []Subgraph `validate:"min=1,dive"`
}

// Subgraph is one entry of the document, named by its mapping key.
type Subgraph struct {
	Name string `validate:"required"`
	SubgraphEntry
}

// SubgraphEntry is the body of a subgraph entry.
type SubgraphEntry struct {
	// RoutingURL is the endpoint recorded for the subgraph in the composed
	// supergraph. It is carried through composition uninterpreted.
	RoutingURL string `yaml:"routing_url" json:"routing_url,omitempty" jsonschema:"description=Endpoint recorded for the subgraph in the supergraph document." validate:"omitempty,url"`

	// Schema selects where the subgraph SDL comes from.
	Schema SchemaSource `yaml:"schema" json:"schema" jsonschema:"description=Source of the subgraph schema." validate:"required"`
}

// SchemaSource names exactly one way to obtain the subgraph SDL.
type SchemaSource struct {
	File string `yaml:"file" json:"file,omitempty" jsonschema:"oneof_required=file,description=Path to a file holding the subgraph SDL. Relative paths resolve against the config file directory." validate:"required_without=SDL,excluded_with=SDL"`
	SDL  string `yaml:"sdl" json:"sdl,omitempty" jsonschema:"oneof_required=sdl,description=Inline subgraph SDL." validate:"required_without=File,excluded_with=File"`
}

// UnmarshalYAML decodes the document while preserving the order of the
// subgraphs mapping, which plain map decoding would lose.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Subgraphs yaml.Node `yaml:"subgraphs"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Subgraphs.Kind == 0:
		return nil // absent; reported by Validate
	case raw.Subgraphs.Kind == yaml.ScalarNode && raw.Subgraphs.Tag == "!!null":
		return nil
	case raw.Subgraphs.Kind != yaml.MappingNode:
		return fmt.Errorf("subgraphs: expected a mapping at line %d", raw.Subgraphs.Line)
	}

	content := raw.Subgraphs.Content
	seen := make(map[string]bool, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		key, val := content[i], content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("duplicate subgraph %q at line %d", key.Value, key.Line)
		}
		seen[key.Value] = true

		var entry SubgraphEntry
		if err := val.Decode(&entry); err != nil {
			return fmt.Errorf("subgraph %q: %w", key.Value, err)
		}
		d.Subgraphs = append(d.Subgraphs, Subgraph{Name: key.Value, SubgraphEntry: entry})
	}
	return nil
}

// Parse decodes and validates a supergraph configuration document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse supergraph config: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the supergraph configuration at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read supergraph config: %w", err)
	}
	return Parse(data)
}

// Validate checks the document against its struct validation tags: at least
// one subgraph, each with a name and exactly one schema source.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid supergraph config: %w", err)
	}
	return nil
}

// Resolve materializes the document into the service list composition
// takes, reading schema files as needed. Relative schema paths resolve
// against dir.
func (d *Document) Resolve(dir string) (entities.ServiceList, error) {
	services := make(entities.ServiceList, 0, len(d.Subgraphs))
	for _, sg := range d.Subgraphs {
		sdl := sg.Schema.SDL
		if sg.Schema.File != "" {
			path := sg.Schema.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("subgraph %q: read schema: %w", sg.Name, err)
			}
			sdl = string(data)
		}
		services = append(services, entities.NewServiceDefinition(sg.Name, sg.RoutingURL, sdl))
	}
	return services, nil
}
