package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tobsdb/pagedb/internal/schema"
	"github.com/tobsdb/pagedb/tools/generate"
)

func main() {
	var path, schema_str, out, lang string

	flag.StringVar(&path, "path", "", "Path to schema file")
	flag.StringVar(&schema_str, "schema", "", "Schema JSON string. Preferred over -path")
	flag.StringVar(&out, "out", "", "Output file")
	flag.StringVar(&lang, "lang", "json", "Output language. Options: json, typescript, rust, golang")

	flag.Parse()

	if path == "" && schema_str == "" {
		fmt.Println("Must specify either -path or -schema")
		os.Exit(1)
	}

	if schema_str == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		schema_str = string(data)
	}

	s, err := schema.Parse([]byte(schema_str))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	data, err := generate.SchemaToLang(s, lang)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if out == "" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
