package parser_test

import (
	"errors"
	"testing"

	. "github.com/tobsdb/pagedb/internal/parser"
	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/internal/schema"
	"gotest.tools/assert"
)

func testSchema(t *testing.T) *schema.Schema {
	s, err := schema.New("shop", 2, map[string][]string{
		"users":  {"name", "email"},
		"orders": {"user_id", "item"},
	})
	assert.NilError(t, err)
	return s
}

func assertParseError(t *testing.T, s *schema.Schema, text string) {
	t.Helper()
	_, err := Parse(text, s)
	assert.Assert(t, err != nil, text)
	assert.Assert(t, errors.Is(err, query.ErrParse), err)
	assert.Equal(t, query.AsQueryError(err).Status(), 400)
}

func TestLexer(t *testing.T) {
	tokens := NewLexer(`SELECT users.name FROM users WHERE users.name = 'Ada  L' OR users.email=x@y.z;`).Tokenize()
	types := []TokenType{}
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.DeepEqual(t, types, []TokenType{
		SELECT, WORD, FROM, WORD, WHERE, WORD, EQUALS, STRING, OR, WORD, EQUALS, WORD, SEMICOLON, EOF,
	})
	assert.Equal(t, tokens[7].Value, "Ada  L")
	assert.Equal(t, tokens[11].Value, "x@y.z")

	t.Run("keywords are case sensitive", func(t *testing.T) {
		tok := NewLexer("select").NextToken()
		assert.Equal(t, tok.Type, WORD)
	})

	t.Run("unterminated string", func(t *testing.T) {
		tokens := NewLexer(`'abc`).Tokenize()
		assert.Equal(t, tokens[len(tokens)-1].Type, INVALID)
	})
}

func TestParseInsert(t *testing.T) {
	s := testSchema(t)

	t.Run("multiple tuples", func(t *testing.T) {
		cmd, err := Parse(`INSERT INTO users VALUES ('Ada Lovelace', 'ada@x.io'), (bob, "bob@x.io");`, s)
		assert.NilError(t, err)
		insert, ok := cmd.(*query.Insert)
		assert.Assert(t, ok)
		assert.Equal(t, insert.Kind(), query.CommandInsert)
		assert.Equal(t, insert.Table, "users")
		assert.DeepEqual(t, insert.Rows, [][]string{
			{"Ada Lovelace", "ada@x.io"},
			{"bob", "bob@x.io"},
		})
	})

	t.Run("empty quoted value", func(t *testing.T) {
		cmd, err := Parse(`INSERT INTO users VALUES ('', 'e')`, s)
		assert.NilError(t, err)
		assert.DeepEqual(t, cmd.(*query.Insert).Rows, [][]string{{"", "e"}})
	})

	t.Run("unknown table is left to the executor", func(t *testing.T) {
		cmd, err := Parse(`INSERT INTO ghosts VALUES (1)`, s)
		assert.NilError(t, err)
		assert.DeepEqual(t, cmd.Tables(), []string{"ghosts"})
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{
			`INSERT users VALUES (1)`,
			`INSERT INTO users (1)`,
			`INSERT INTO users VALUES`,
			`INSERT INTO users VALUES ()`,
			`INSERT INTO users VALUES (1, 2`,
			`INSERT INTO users VALUES (1 2)`,
			`INSERT INTO users VALUES (1), `,
			`INSERT INTO users VALUES ('a,b', 'c')`,
			`INSERT INTO users VALUES ("it's", 'c')`,
			`INSERT INTO users VALUES ('open, 'c')`,
			`INSERT INTO users VALUES (1);;`,
		} {
			assertParseError(t, s, text)
		}
	})
}

func TestParseDelete(t *testing.T) {
	s := testSchema(t)

	cmd, err := Parse(`DELETE FROM users WHERE users.users_pk = '2' OR users.name = bob AND users.email = 'b'`, s)
	assert.NilError(t, err)
	del, ok := cmd.(*query.Delete)
	assert.Assert(t, ok)
	assert.Equal(t, del.Table, "users")
	assert.DeepEqual(t, del.Where, query.ConditionGroup{
		{{Field: "users.users_pk", Value: "2"}},
		{{Field: "users.name", Value: "bob"}, {Field: "users.email", Value: "b"}},
	})

	t.Run("WHERE is mandatory", func(t *testing.T) {
		assertParseError(t, s, `DELETE FROM users`)
		assertParseError(t, s, `DELETE FROM users;`)
	})

	t.Run("malformed conditions", func(t *testing.T) {
		for _, text := range []string{
			`DELETE FROM users WHERE`,
			`DELETE FROM users WHERE name = 'x'`,
			`DELETE FROM users WHERE users.name 'x'`,
			`DELETE FROM users WHERE users.name = 'x' AND`,
			`DELETE FROM users WHERE users.name = 'x' OR OR users.name = 'y'`,
			`DELETE FROM users WHERE users.name > 'x'`,
			`DELETE users WHERE users.name = 'x'`,
		} {
			assertParseError(t, s, text)
		}
	})
}

func TestParseSelect(t *testing.T) {
	s := testSchema(t)

	t.Run("projection keeps declared order", func(t *testing.T) {
		cmd, err := Parse(`SELECT users.email, orders.item, users.name FROM users, orders`, s)
		assert.NilError(t, err)
		sel := cmd.(*query.Select)
		assert.DeepEqual(t, sel.From, []string{"users", "orders"})
		assert.DeepEqual(t, sel.Columns, []query.Column{
			{Table: "users", Name: "email"},
			{Table: "orders", Name: "item"},
			{Table: "users", Name: "name"},
		})
		assert.Assert(t, !sel.HasWhere())
	})

	t.Run("star expands every column in FROM order", func(t *testing.T) {
		cmd, err := Parse(`SELECT * FROM orders, users`, s)
		assert.NilError(t, err)
		sel := cmd.(*query.Select)
		assert.DeepEqual(t, sel.Columns, []query.Column{
			{Table: "orders", Name: "orders_pk"},
			{Table: "orders", Name: "user_id"},
			{Table: "orders", Name: "item"},
			{Table: "users", Name: "users_pk"},
			{Table: "users", Name: "name"},
			{Table: "users", Name: "email"},
		})
	})

	t.Run("star on unknown table", func(t *testing.T) {
		_, err := Parse(`SELECT * FROM ghosts`, s)
		assert.Assert(t, errors.Is(err, query.ErrUnknownTable), err)
	})

	t.Run("join condition refers to a column", func(t *testing.T) {
		cmd, err := Parse(`SELECT users.name, orders.item FROM users, orders WHERE users.users_pk = orders.user_id AND orders.item = 'pen'`, s)
		assert.NilError(t, err)
		sel := cmd.(*query.Select)
		assert.DeepEqual(t, sel.Where, query.ConditionGroup{{
			{Field: "users.users_pk", Value: "orders.user_id", Ref: true},
			{Field: "orders.item", Value: "pen"},
		}})
	})

	t.Run("quoted qualified value is a literal", func(t *testing.T) {
		cmd, err := Parse(`SELECT users.name FROM users WHERE users.email = 'a.b'`, s)
		assert.NilError(t, err)
		assert.DeepEqual(t, cmd.(*query.Select).Where, query.ConditionGroup{
			{{Field: "users.email", Value: "a.b"}},
		})
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{
			`SELECT name FROM users`,
			`SELECT users.name FROM orders`,
			`SELECT users.name FROM users, users`,
			`SELECT users.name`,
			`SELECT FROM users`,
			`SELECT users.name, FROM users`,
			`SELECT users.name FROM users WHERE`,
			`SELECT users.name FROM users extra`,
		} {
			assertParseError(t, s, text)
		}
	})
}

func TestParseUnrecognized(t *testing.T) {
	s := testSchema(t)
	for _, text := range []string{"", "   ", "UPDATE users", "select * from users", "DROP TABLE users"} {
		assertParseError(t, s, text)
	}
}

func TestLexerMultiByteCharacters(t *testing.T) {
	// 'à' is C3 A0 and 'Å' is C3 85; neither continuation byte is a space
	tokens := NewLexer("voilà Åsa x").Tokenize()
	values := []string{}
	for _, tok := range tokens[:len(tokens)-1] {
		assert.Equal(t, tok.Type, WORD)
		values = append(values, tok.Value)
	}
	assert.DeepEqual(t, values, []string{"voilà", "Åsa", "x"})
}

func TestParseNonASCIIValues(t *testing.T) {
	s := testSchema(t)

	cmd, err := Parse(`INSERT INTO users VALUES (voilà, 'Åsa'), (Åsa, 日本)`, s)
	assert.NilError(t, err)
	assert.DeepEqual(t, cmd.(*query.Insert).Rows, [][]string{
		{"voilà", "Åsa"},
		{"Åsa", "日本"},
	})

	cmd, err = Parse(`SELECT users.name FROM users WHERE users.email = Åsa OR users.name = voilà`, s)
	assert.NilError(t, err)
	assert.DeepEqual(t, cmd.(*query.Select).Where, query.ConditionGroup{
		{{Field: "users.email", Value: "Åsa"}},
		{{Field: "users.name", Value: "voilà"}},
	})
}

func TestParseKeywordValues(t *testing.T) {
	s := testSchema(t)

	cmd, err := Parse(`INSERT INTO users VALUES (OR, FROM), (AND, 'SELECT')`, s)
	assert.NilError(t, err)
	assert.DeepEqual(t, cmd.(*query.Insert).Rows, [][]string{
		{"OR", "FROM"},
		{"AND", "SELECT"},
	})

	cmd, err = Parse(`DELETE FROM users WHERE users.name = OR AND users.email = FROM OR users.name = AND`, s)
	assert.NilError(t, err)
	assert.DeepEqual(t, cmd.(*query.Delete).Where, query.ConditionGroup{
		{{Field: "users.name", Value: "OR"}, {Field: "users.email", Value: "FROM"}},
		{{Field: "users.name", Value: "AND"}},
	})
}
