package schema

import _ "embed"

//go:embed logging.schema.json
var loggingSchemaData []byte

// ExtensionSchemas maps top-level extension keys to the schema their section
// must satisfy. Keys not listed here are accepted unchecked.
var ExtensionSchemas = map[string][]byte{
	"logging": loggingSchemaData,
}
