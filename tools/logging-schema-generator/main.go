// Command logging-schema-generator writes the schema of the logging
// extension section:
//
//	go run ./tools/logging-schema-generator
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/grovetools/richedit/logging"
	"github.com/invopop/jsonschema"
	flag "github.com/spf13/pflag"
)

func main() {
	out := flag.StringP("out", "o", "schema/logging.schema.json", "Output file")
	flag.Parse()

	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}
	schema := r.Reflect(&logging.Config{})
	schema.Title = "richedit Logging Configuration"
	schema.Description = "Schema for the 'logging' section of richedit.yml."
	// Every logging setting is optional.
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Wrote logging schema to %s", *out)
}
