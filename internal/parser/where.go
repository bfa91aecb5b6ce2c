package parser

import (
	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/pkg"
)

// parseConditionGroup reads `<eq> (AND <eq>)* (OR <eq> (AND <eq>)*)*`.
// AND binds tighter than OR and there is no grouping.
func (p *Parser) parseConditionGroup() (query.ConditionGroup, error) {
	group := query.ConditionGroup{}
	for {
		and_group, err := p.parseAndGroup()
		if err != nil {
			return nil, err
		}
		group = append(group, and_group)
		if !p.accept(OR) {
			return group, nil
		}
	}
}

func (p *Parser) parseAndGroup() ([]query.Condition, error) {
	conditions := []query.Condition{}
	for {
		cond, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
		if !p.accept(AND) {
			return conditions, nil
		}
	}
}

// parseEquality reads `table.column = <rhs>`. A quoted rhs is always a
// literal; a bare qualified name refers to another column. A bare keyword
// is a literal.
func (p *Parser) parseEquality() (query.Condition, error) {
	table, column, err := p.parseQualifiedName()
	if err != nil {
		return query.Condition{}, err
	}
	if _, err := p.expect(EQUALS); err != nil {
		return query.Condition{}, err
	}

	cond := query.Condition{Field: pkg.Qualify(table, column)}
	tok := p.next()
	switch tok.Type {
	case STRING:
		cond.Value = tok.Value
	case WORD:
		if ref_table, ref_column, ok := splitColumnRef(tok.Value); ok {
			cond.Value = pkg.Qualify(ref_table, ref_column)
			cond.Ref = true
		} else {
			cond.Value = tok.Value
		}
	default:
		if !tok.Type.IsKeyword() {
			return query.Condition{}, unexpected(tok, "value")
		}
		cond.Value = tok.Value
	}
	return cond, nil
}
