// Package schema holds the immutable description of a database: its root
// name, the page capacity and the ordered columns of every table.
package schema

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	sorted "github.com/tobshub/go-sortedmap"

	"github.com/tobsdb/pagedb/pkg"
)

// Every table gets a synthetic primary key column named "<table>_pk" in front
// of its declared columns.
const SYS_PRIMARY_KEY_SUFFIX = "_pk"

// Characters that cannot appear in a stored value or a name.
const (
	FieldSeparator = ","
	ReservedChars  = ",'\"()\n\r"
)

type Table struct {
	Name    string
	Columns []string
}

func (t *Table) PrimaryKey() string { return t.Name + SYS_PRIMARY_KEY_SUFFIX }

// Header is the first line of every page of the table.
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, t.PrimaryKey())
	return append(header, t.Columns...)
}

func (t *Table) HasColumn(name string) bool {
	if name == t.PrimaryKey() {
		return true
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// QualifiedHeader returns the header with every column prefixed by "<table>.".
func (t *Table) QualifiedHeader() []string {
	header := t.Header()
	for i, c := range header {
		header[i] = pkg.Qualify(t.Name, c)
	}
	return header
}

// Schema is shared read-only by every operation once built.
type Schema struct {
	Name        string
	TuplesLimit int

	tables  *sorted.SortedMap[string, *Table]
	ordered []*Table
}

type schemaFile struct {
	Name        string              `json:"name"`
	TuplesLimit int                 `json:"tuples_limit"`
	Structure   map[string][]string `json:"structure"`
}

func tableComparisonFunc(a, b *Table) bool { return a.Name < b.Name }

func New(name string, tuples_limit int, structure map[string][]string) (*Schema, error) {
	s := &Schema{
		Name:        name,
		TuplesLimit: tuples_limit,
		tables:      sorted.New[string, *Table](len(structure), tableComparisonFunc),
	}

	for table_name, columns := range structure {
		t := &Table{Name: table_name, Columns: append([]string{}, columns...)}
		if !s.tables.Insert(table_name, t) {
			return nil, fmt.Errorf("duplicate table %s", table_name)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	iter_ch, err := s.tables.IterCh()
	if err == nil {
		for rec := range iter_ch.Records() {
			s.ordered = append(s.ordered, rec.Val)
		}
	}
	return s, nil
}

func Parse(data []byte) (*Schema, error) {
	var f schemaFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return New(f.Name, f.TuplesLimit, f.Structure)
}

func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema name is required")
	}
	if !isPathSafe(s.Name) {
		return fmt.Errorf("schema name %q contains invalid characters", s.Name)
	}
	if s.TuplesLimit <= 0 {
		return fmt.Errorf("tuples_limit must be positive, got %d", s.TuplesLimit)
	}
	if s.tables == nil || s.tables.Len() == 0 {
		return fmt.Errorf("schema %s has no tables", s.Name)
	}

	for name, t := range s.tables.Idx {
		if !pkg.IsIdentifier(name) {
			return fmt.Errorf("table name %q contains invalid characters", name)
		}
		if len(t.Columns) == 0 {
			return fmt.Errorf("table %s has no columns", name)
		}

		seen := pkg.Map[string, bool]{}
		for _, c := range t.Columns {
			if !pkg.IsIdentifier(c) {
				return fmt.Errorf("column name %q on table %s contains invalid characters", c, name)
			}
			if c == t.PrimaryKey() {
				return fmt.Errorf("column %s on table %s is reserved for the primary key", c, name)
			}
			if seen.Has(c) {
				return fmt.Errorf("duplicate column %s on table %s", c, name)
			}
			seen.Set(c, true)
		}
	}
	return nil
}

func isPathSafe(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		switch {
		case r == '_', r == '-', r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func (s *Schema) Table(name string) (*Table, bool) {
	return s.tables.Get(name)
}

func (s *Schema) HasTable(name string) bool {
	_, ok := s.tables.Get(name)
	return ok
}

// Tables returns every table ordered by name.
func (s *Schema) Tables() []*Table {
	return append([]*Table{}, s.ordered...)
}

func (s *Schema) Len() int { return len(s.ordered) }

// Root is the directory holding the database under base.
func (s *Schema) Root(base string) string {
	return filepath.Join(base, s.Name)
}
