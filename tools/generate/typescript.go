package generate

import "fmt"

func SchemaToTypescript(tables []ParsedTable) []byte {
	res := "export type Schema = {\n"
	for _, t := range tables {
		res += fmt.Sprintf("\t%s: {\n%s\n\t};\n", t.Name, fieldsToTypescript(t.Columns))
	}
	res += "}"
	return []byte(res)
}

func fieldsToTypescript(columns []string) string {
	res := ""
	for i, c := range columns {
		res += fmt.Sprintf("\t\t%s: string;", c)
		if i < len(columns)-1 {
			res += "\n"
		}
	}
	return res
}
