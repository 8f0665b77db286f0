package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema generates the JSON Schema for the configuration file, surfaced by
// `webdeck config schema` for editor completion.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	schema := r.Reflect(&Config{})
	return json.MarshalIndent(schema, "", "  ")
}
