package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

// buildRecordSchema returns the JSON-Schema each oracle response element
// must satisfy, as a generic map. Date and time stay optional so a record
// with usable coordinates is not discarded over a missing timestamp.
func buildRecordSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"address":          map[string]any{"type": "string"},
			"latitude":         map[string]any{"type": "number", "minimum": -90.0, "maximum": 90.0},
			"longitude":        map[string]any{"type": "number", "minimum": -180.0, "maximum": 180.0},
			"date":             map[string]any{"type": "string"},
			"time":             map[string]any{"type": "string"},
			"foundCoordinates": map[string]any{"type": "boolean"},
		},
		"required": []string{"address", "latitude", "longitude", "foundCoordinates"},
	}
}

func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		b, err := json.Marshal(buildRecordSchema())
		if err != nil {
			recordSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
			recordSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		recordSchema, recordSchemaErr = compiler.Compile("record.json")
	})
	return recordSchema, recordSchemaErr
}

// validateRecord checks one decoded response element against the record
// schema.
func validateRecord(raw json.RawMessage) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal element: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("element does not match schema: %w", err)
	}
	return nil
}
