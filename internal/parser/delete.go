package parser

import "github.com/tobsdb/pagedb/internal/query"

// DELETE FROM <table> WHERE <cond-expr>
func (p *Parser) parseDelete() (*query.Delete, error) {
	if _, err := p.expect(DELETE); err != nil {
		return nil, err
	}
	if _, err := p.expect(FROM); err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != WHERE {
		if tok.Type == EOF || tok.Type == SEMICOLON {
			return nil, query.NewParseError("DELETE requires a WHERE clause")
		}
		return nil, unexpected(tok, WHERE.String())
	}
	p.next()

	where, err := p.parseConditionGroup()
	if err != nil {
		return nil, err
	}
	return &query.Delete{Table: table, Where: where}, nil
}
