package query

import (
	"strings"

	"github.com/tobsdb/pagedb/pkg"
)

// Fields maps "table.column" to a stored value.
type Fields = pkg.Map[string, string]

// Condition is an equality test on a qualified field. The right-hand side is
// either a literal or, when Ref is set, another qualified field.
type Condition struct {
	Field string
	Value string
	Ref   bool
}

func (c Condition) String() string {
	if c.Ref {
		return c.Field + " = " + c.Value
	}
	return c.Field + " = '" + c.Value + "'"
}

// Matches is false when the field, or the referenced field, is missing.
func (c Condition) Matches(fields Fields) bool {
	left, ok := fields.Lookup(c.Field)
	if !ok {
		return false
	}
	if !c.Ref {
		return left == c.Value
	}
	right, ok := fields.Lookup(c.Value)
	return ok && left == right
}

// ConditionGroup is a disjunction of conjunctions: the outer slice holds OR
// groups, each inner slice the conditions that must all hold.
type ConditionGroup [][]Condition

// Matches reports whether some OR group has all of its conditions true.
func (g ConditionGroup) Matches(fields Fields) bool {
	for _, and_group := range g {
		if matchAll(and_group, fields) {
			return true
		}
	}
	return false
}

func matchAll(conditions []Condition, fields Fields) bool {
	for _, c := range conditions {
		if !c.Matches(fields) {
			return false
		}
	}
	return true
}

// Filter keeps the rows matching the group. A nil group keeps everything.
func (g ConditionGroup) Filter(rows []Fields) []Fields {
	if g == nil {
		return rows
	}
	return pkg.Filter(rows, g.Matches)
}

func (g ConditionGroup) String() string {
	or_parts := make([]string, len(g))
	for i, and_group := range g {
		and_parts := make([]string, len(and_group))
		for j, c := range and_group {
			and_parts[j] = c.String()
		}
		or_parts[i] = strings.Join(and_parts, " AND ")
	}
	return strings.Join(or_parts, " OR ")
}
