package generate

import (
	"fmt"

	"github.com/tobsdb/pagedb/internal/schema"
)

// SchemaToLang renders one row type per table of {s}. Every stored value is
// a string, so the generated fields are all strings.
func SchemaToLang(s *schema.Schema, lang string) ([]byte, error) {
	tables := schemaDestructure(s)
	switch lang {
	case "json":
		return SchemaToJson(tables)
	case "typescript", "ts":
		return SchemaToTypescript(tables), nil
	case "rust", "rs":
		return SchemaToRust(tables), nil
	case "golang", "go":
		return SchemaToGo(tables), nil
	default:
		return nil, fmt.Errorf("Unsupported Language: %s", lang)
	}
}
