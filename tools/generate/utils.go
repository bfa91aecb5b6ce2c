package generate

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tobsdb/pagedb/internal/schema"
)

func toPascalCase(t string) string {
	res := ""
	for _, v := range strings.Split(t, "_") {
		if v == "" {
			continue
		}
		res += strings.ToUpper(v[0:1]) + v[1:]
	}
	return res
}

type ParsedTable struct {
	Name string `json:"name"`
	// header order, primary key first
	Columns []string `json:"columns"`
}

func schemaDestructure(s *schema.Schema) []ParsedTable {
	res := []ParsedTable{}
	for _, t := range s.Tables() {
		res = append(res, ParsedTable{t.Name, t.Header()})
	}
	return res
}

func SchemaToJson(tables []ParsedTable) ([]byte, error) {
	return json.MarshalIndent(tables, "", "  ")
}
