package parser

import (
	"slices"

	"github.com/tobsdb/pagedb/internal/query"
)

// SELECT <table.col>[, <table.col>]* | * FROM <table>[, <table>]* [WHERE <cond-expr>]
func (p *Parser) parseSelect() (*query.Select, error) {
	if _, err := p.expect(SELECT); err != nil {
		return nil, err
	}

	star := p.accept(ASTERISK)
	columns := []query.Column{}
	if !star {
		for {
			table, column, err := p.parseQualifiedName()
			if err != nil {
				return nil, err
			}
			columns = append(columns, query.Column{Table: table, Name: column})
			if !p.accept(COMMA) {
				break
			}
		}
	}

	if _, err := p.expect(FROM); err != nil {
		return nil, err
	}

	from := []string{}
	for {
		table, err := p.parseTableName()
		if err != nil {
			return nil, err
		}
		if slices.Contains(from, table) {
			return nil, query.NewParseError("table %s appears more than once in FROM", table)
		}
		from = append(from, table)
		if !p.accept(COMMA) {
			break
		}
	}

	cmd := &query.Select{From: from}
	if star {
		expanded, err := p.expandStar(from)
		if err != nil {
			return nil, err
		}
		cmd.Columns = expanded
	} else {
		for _, col := range columns {
			if !slices.Contains(from, col.Table) {
				return nil, query.NewParseError("projected column %s names a table not in FROM", col)
			}
		}
		cmd.Columns = columns
	}

	if p.accept(WHERE) {
		where, err := p.parseConditionGroup()
		if err != nil {
			return nil, err
		}
		cmd.Where = where
	}
	return cmd, nil
}

// expandStar lists every column of every FROM table, primary key first.
func (p *Parser) expandStar(from []string) ([]query.Column, error) {
	columns := []query.Column{}
	for _, name := range from {
		if p.schema == nil {
			return nil, query.NewUnknownTableError(name)
		}
		table, ok := p.schema.Table(name)
		if !ok {
			return nil, query.NewUnknownTableError(name)
		}
		for _, column := range table.Header() {
			columns = append(columns, query.Column{Table: name, Name: column})
		}
	}
	return columns, nil
}
