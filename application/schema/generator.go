// Package schema generates JSON schemas for the tooling surface.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/dball/federation/application/config"
)

// Generate creates a JSON schema from a Go struct. It reflects on the
// struct's tags and emits a standard JSON Schema (Draft 2020-12).
func Generate(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// SupergraphConfig returns the JSON schema of the supergraph configuration
// document, as printed by the CLI.
func SupergraphConfig() ([]byte, error) {
	return Generate(&config.Format{})
}
