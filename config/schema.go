package config

import (
	"encoding/json"
	"sync"

	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/schema"
	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the JSON Schema of Config. The result is what
// schema/richedit.embedded.schema.json is generated from. Extension
// sections are described by their own schemas.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}
	s := r.Reflect(&Config{})
	s.Title = "richedit Configuration"
	s.Description = "Schema for richedit.yml and richedit.toml."
	s.Version = "http://json-schema.org/draft-07/schema#"
	return json.MarshalIndent(s, "", "  ")
}

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// validateSchema checks cfg and its extension sections against the
// embedded schemas, compiled on first use.
func validateSchema(cfg *Config) error {
	validatorOnce.Do(func() {
		validator, validatorErr = schema.NewValidator()
	})
	if validatorErr != nil {
		return errors.Wrap(validatorErr, errors.ErrCodeInternal, "embedded schema does not compile")
	}
	if err := validator.Validate(cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}
	if err := validator.ValidateExtensions(cfg.Extensions); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}
	return nil
}
