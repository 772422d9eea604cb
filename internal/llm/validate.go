package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled schemas keyed by Schema.Name
var schemaCache sync.Map

// validateResponse checks raw against schema. A nil schema accepts
// anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidResponseError{Content: raw, Err: errors.Wrap(err, "invalid JSON")}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return &InvalidResponseError{Content: raw, Err: errors.Wrapf(err, "compile schema %q", schema.Name)}
	}
	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{Content: raw, Err: errors.Wrap(err, "schema validation failed")}
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, errors.Wrap(err, "marshal schema definition")
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, errors.Wrap(err, "parse schema definition")
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, errors.Wrap(err, "add resource")
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

// stripFence removes a surrounding ```json fence some models add even in
// JSON mode.
func stripFence(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return json.RawMessage(trimmed)
	}
	trimmed = trimmed[3:]
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	trimmed = bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte("```"))
	return json.RawMessage(bytes.TrimSpace(trimmed))
}
