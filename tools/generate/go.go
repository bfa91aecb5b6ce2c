package generate

import "fmt"

func SchemaToGo(tables []ParsedTable) []byte {
	res := "package schema\n"

	for _, t := range tables {
		res += fmt.Sprintf("\ntype %s struct {\n%s\n}\n",
			toPascalCase(t.Name), fieldsToGo(t))
		res += fmt.Sprintf("\nfunc (r %s) Values() []string {\n\treturn []string{%s}\n}\n",
			toPascalCase(t.Name), valuesToGo(t))
	}

	return []byte(res)
}

func fieldsToGo(t ParsedTable) string {
	res := ""
	for i, c := range t.Columns {
		res += fmt.Sprintf("\t%s string `pagedb:\"%s.%s\"`", toPascalCase(c), t.Name, c)
		if i < len(t.Columns)-1 {
			res += "\n"
		}
	}
	return res
}

// valuesToGo lists the insertable fields, which exclude the primary key.
func valuesToGo(t ParsedTable) string {
	res := ""
	for i, c := range t.Columns[1:] {
		if i > 0 {
			res += ", "
		}
		res += "r." + toPascalCase(c)
	}
	return res
}
