package parser

import (
	"strings"

	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/internal/schema"
	"github.com/tobsdb/pagedb/pkg"
)

// Parser turns one statement into a query.Command. The schema is only used to
// expand `SELECT *`; every other name is resolved by the executor.
type Parser struct {
	tokens []Token
	pos    int
	schema *schema.Schema
}

// Parse recognizes INSERT, DELETE and SELECT statements, optionally terminated
// by a single ';'. Failures are query.QueryError values of class ErrParse, or
// ErrUnknownTable when `*` names a table the schema does not have.
func Parse(text string, s *schema.Schema) (query.Command, error) {
	if strings.TrimSpace(text) == "" {
		return nil, query.NewParseError("empty query")
	}

	tokens := NewLexer(text).Tokenize()
	last := tokens[len(tokens)-1]
	if last.Type == INVALID {
		return nil, query.NewParseError("unterminated string at position %d", last.Position)
	}

	p := &Parser{tokens: tokens, schema: s}

	var cmd query.Command
	var err error
	switch p.peek().Type {
	case INSERT:
		cmd, err = p.parseInsert()
	case DELETE:
		cmd, err = p.parseDelete()
	case SELECT:
		cmd, err = p.parseSelect()
	default:
		return nil, query.NewParseError("unrecognized command %s", p.peek())
	}
	if err != nil {
		return nil, err
	}

	if err := p.parseEnd(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

// accept consumes the next token if it has type {tt}.
func (p *Parser) accept(tt TokenType) bool {
	if p.peek().Type == tt {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, unexpected(tok, tt.String())
	}
	return tok, nil
}

func (p *Parser) parseEnd() error {
	p.accept(SEMICOLON)
	if tok := p.peek(); tok.Type != EOF {
		return unexpected(tok, EOF.String())
	}
	return nil
}

// parseTableName reads a bare, unqualified table identifier.
func (p *Parser) parseTableName() (string, error) {
	tok, err := p.expect(WORD)
	if err != nil {
		return "", err
	}
	if !pkg.IsIdentifier(tok.Value) {
		return "", query.NewParseError("invalid table name %s at position %d", tok, tok.Position)
	}
	return tok.Value, nil
}

// parseQualifiedName reads a `table.column` reference.
func (p *Parser) parseQualifiedName() (table, column string, err error) {
	tok, err := p.expect(WORD)
	if err != nil {
		return "", "", err
	}
	table, column, ok := splitColumnRef(tok.Value)
	if !ok {
		return "", "", query.NewParseError(
			"column %s at position %d must be qualified as table.column", tok, tok.Position)
	}
	return table, column, nil
}

func splitColumnRef(name string) (table, column string, ok bool) {
	table, column, ok = pkg.SplitQualified(name)
	if !ok || !pkg.IsIdentifier(table) || !pkg.IsIdentifier(column) {
		return "", "", false
	}
	return table, column, true
}

func unexpected(tok Token, want string) error {
	return query.NewParseError("expected %s at position %d, got %s", want, tok.Position, tok)
}
