package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tobsdb/pagedb/internal/schema"
)

func main() {
	args := os.Args
	var schema_path string

	if len(args) > 1 {
		schema_path = args[1]
	} else {
		schema_path = "./schema.json"
	}

	if !filepath.IsAbs(schema_path) {
		cwd, _ := os.Getwd()
		schema_path = filepath.Join(cwd, schema_path)
	}

	fmt.Printf("Checking %s for errors\n", schema_path)

	s, err := schema.Load(schema_path)
	if err != nil {
		fmt.Printf("Invalid schema; %s\n", err.Error())
		os.Exit(1)
	}

	fmt.Printf("Schema checks successful: %s is valid\n", s.Name)
	for _, table := range s.Tables() {
		fmt.Printf("  %s (%d columns)\n", table.Name, len(table.Header()))
	}
}
