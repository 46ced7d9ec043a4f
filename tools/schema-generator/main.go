// Command schema-generator writes the JSON Schema that config validation
// embeds. Run it after changing the config types:
//
//	go run ./tools/schema-generator
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/richedit/config"
	flag "github.com/spf13/pflag"
)

func main() {
	out := flag.StringP("out", "o", "schema/richedit.embedded.schema.json", "Output file")
	flag.Parse()

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}
	if err := os.WriteFile(*out, append(schemaBytes, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Wrote config schema to %s", *out)
}
