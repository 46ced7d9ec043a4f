package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed richedit.embedded.schema.json
var embeddedSchemaData []byte

// Embedded returns the embedded configuration schema.
func Embedded() []byte {
	return embeddedSchemaData
}

// Validator validates configuration against the embedded JSON Schema.
type Validator struct {
	schema     *jsonschema.Schema
	extensions map[string]*jsonschema.Schema
}

// NewValidator creates a new schema validator, loading the embedded schemas.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("richedit.json", bytes.NewReader(embeddedSchemaData)); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}
	for key, data := range ExtensionSchemas {
		if err := compiler.AddResource(key+".json", bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add %s schema resource: %w", key, err)
		}
	}

	schema, err := compiler.Compile("richedit.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	v := &Validator{schema: schema, extensions: make(map[string]*jsonschema.Schema)}
	for key := range ExtensionSchemas {
		ext, err := compiler.Compile(key + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", key, err)
		}
		v.extensions[key] = ext
	}
	return v, nil
}

// Validate validates configuration data against the schema.
// It expects the configData to be any value that can be marshaled to JSON.
func (v *Validator) Validate(configData interface{}) error {
	data, err := toJSONValue(configData)
	if err != nil {
		return err
	}
	return check(v.schema, data, "")
}

// ValidateExtensions checks each extension section that has a known schema.
func (v *Validator) ValidateExtensions(extensions map[string]interface{}) error {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		schema, ok := v.extensions[key]
		if !ok {
			continue
		}
		data, err := toJSONValue(extensions[key])
		if err != nil {
			return err
		}
		if err := check(schema, data, key); err != nil {
			return err
		}
	}
	return nil
}

// toJSONValue converts data to plain JSON values, the only input the schema
// library accepts.
func toJSONValue(configData interface{}) (interface{}, error) {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var out interface{}
	if err := json.Unmarshal(jsonData, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}
	return out, nil
}

func check(schema *jsonschema.Schema, data interface{}, section string) error {
	if err := schema.Validate(data); err != nil {
		prefix := "schema validation failed"
		if section != "" {
			prefix = fmt.Sprintf("schema validation failed for '%s'", section)
		}
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return fmt.Errorf("%s:\n%s", prefix, strings.Join(errorMessages, "\n"))
		}
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" || len(err.Causes) == 0 {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
