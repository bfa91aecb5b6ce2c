package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/tobsdb/pagedb/internal/schema"
	"gotest.tools/assert"
)

const testSchemaJSON = `{
	"name": "shop",
	"tuples_limit": 3,
	"structure": {
		"users": ["name", "email"],
		"orders": ["user_id", "item"]
	}
}`

func TestParse(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		s, err := Parse([]byte(testSchemaJSON))
		assert.NilError(t, err)
		assert.Equal(t, s.Name, "shop")
		assert.Equal(t, s.TuplesLimit, 3)
		assert.Equal(t, s.Len(), 2)

		users, ok := s.Table("users")
		assert.Assert(t, ok)
		assert.DeepEqual(t, users.Columns, []string{"name", "email"})
		assert.DeepEqual(t, users.Header(), []string{"users_pk", "name", "email"})
		assert.DeepEqual(t, users.QualifiedHeader(),
			[]string{"users.users_pk", "users.name", "users.email"})
	})

	t.Run("tables are ordered by name", func(t *testing.T) {
		s, err := Parse([]byte(testSchemaJSON))
		assert.NilError(t, err)
		tables := s.Tables()
		assert.Equal(t, len(tables), 2)
		assert.Equal(t, tables[0].Name, "orders")
		assert.Equal(t, tables[1].Name, "users")
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := Parse([]byte(`{"name": `))
		assert.ErrorContains(t, err, "invalid schema file")
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		db_name   string
		limit     int
		structure map[string][]string
		err       string
	}{
		{"missing name", "", 1, map[string][]string{"a": {"b"}}, "schema name is required"},
		{"path name", "../x", 1, map[string][]string{"a": {"b"}}, "invalid characters"},
		{"zero limit", "db", 0, map[string][]string{"a": {"b"}}, "tuples_limit must be positive"},
		{"no tables", "db", 1, map[string][]string{}, "has no tables"},
		{"no columns", "db", 1, map[string][]string{"a": {}}, "has no columns"},
		{"bad table", "db", 1, map[string][]string{"a-b": {"c"}}, "invalid characters"},
		{"bad column", "db", 1, map[string][]string{"a": {"b,c"}}, "invalid characters"},
		{"reserved column", "db", 1, map[string][]string{"a": {"a_pk"}}, "reserved for the primary key"},
		{"duplicate column", "db", 1, map[string][]string{"a": {"b", "b"}}, "duplicate column"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.db_name, c.limit, c.structure)
			assert.ErrorContains(t, err, c.err)
		})
	}
}

func TestTable(t *testing.T) {
	s, err := New("db", 2, map[string][]string{"a": {"x", "y"}})
	assert.NilError(t, err)

	a, ok := s.Table("a")
	assert.Assert(t, ok)
	assert.Assert(t, a.HasColumn("a_pk"))
	assert.Assert(t, a.HasColumn("y"))
	assert.Assert(t, !a.HasColumn("z"))
	assert.Assert(t, !s.HasTable("b"))
	assert.Equal(t, s.Root("/data"), filepath.Join("/data", "db"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	assert.NilError(t, os.WriteFile(path, []byte(testSchemaJSON), 0644))

	s, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, s.Name, "shop")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Assert(t, os.IsNotExist(err))
}
