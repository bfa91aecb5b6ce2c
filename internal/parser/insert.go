package parser

import (
	"strings"

	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/internal/schema"
)

// INSERT INTO <table> VALUES (<v>, ...)[, (<v>, ...)]*
func (p *Parser) parseInsert() (*query.Insert, error) {
	if _, err := p.expect(INSERT); err != nil {
		return nil, err
	}
	if _, err := p.expect(INTO); err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(VALUES); err != nil {
		return nil, err
	}

	cmd := &query.Insert{Table: table}
	for {
		row, err := p.parseTuple()
		if err != nil {
			return nil, err
		}
		cmd.Rows = append(cmd.Rows, row)
		if !p.accept(COMMA) {
			break
		}
	}
	return cmd, nil
}

func (p *Parser) parseTuple() ([]string, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	row := []string{}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		row = append(row, value)
		if !p.accept(COMMA) {
			break
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return row, nil
}

// parseValue reads a quoted or bare literal. A bare keyword such as OR is
// taken literally in value position. Values that would break the page line
// format are rejected.
func (p *Parser) parseValue() (string, error) {
	tok := p.next()
	if tok.Type != STRING && tok.Type != WORD && !tok.Type.IsKeyword() {
		return "", unexpected(tok, "value")
	}
	if strings.ContainsAny(tok.Value, schema.ReservedChars) {
		return "", query.NewParseError(
			"value %s at position %d contains a reserved character", tok, tok.Position)
	}
	return tok.Value, nil
}
