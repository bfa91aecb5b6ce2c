package generate

import "fmt"

func SchemaToRust(tables []ParsedTable) []byte {
	res := "use serde::{Deserialize, Serialize};\n"
	for _, t := range tables {
		res += fmt.Sprintf("\n#[derive(Serialize, Deserialize)]\npub struct %s {\n%s}\n",
			toPascalCase(t.Name), fieldsToRust(t.Columns))
	}
	return []byte(res)
}

func fieldsToRust(columns []string) string {
	res := ""
	for _, c := range columns {
		res += fmt.Sprintf("\tpub %s: String,\n", c)
	}
	return res
}
