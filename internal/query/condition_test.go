package query_test

import (
	"testing"

	. "github.com/tobsdb/pagedb/internal/query"
	"gotest.tools/assert"
)

func eq(field, value string) Condition { return Condition{Field: field, Value: value} }

func TestConditionGroupMatches(t *testing.T) {
	// (t.A = 1 AND t.B = 2) OR (t.C = 3)
	group := ConditionGroup{
		{eq("t.A", "1"), eq("t.B", "2")},
		{eq("t.C", "3")},
	}

	cases := []struct {
		name   string
		fields Fields
		want   bool
	}{
		{"first group", Fields{"t.A": "1", "t.B": "2", "t.C": "0"}, true},
		{"second group", Fields{"t.A": "0", "t.B": "0", "t.C": "3"}, true},
		{"both groups", Fields{"t.A": "1", "t.B": "2", "t.C": "3"}, true},
		{"partial first group", Fields{"t.A": "1", "t.B": "0", "t.C": "0"}, false},
		{"missing field fails its group", Fields{"t.B": "2", "t.C": "0"}, false},
		{"missing field other group holds", Fields{"t.B": "2", "t.C": "3"}, true},
		{"empty row", Fields{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, group.Matches(c.fields), c.want)
		})
	}
}

func TestConditionRef(t *testing.T) {
	c := Condition{Field: "a.id", Value: "b.a_id", Ref: true}

	assert.Assert(t, c.Matches(Fields{"a.id": "1", "b.a_id": "1"}))
	assert.Assert(t, !c.Matches(Fields{"a.id": "1", "b.a_id": "2"}))
	assert.Assert(t, !c.Matches(Fields{"a.id": "1"}))
	// a literal with the same text is not a reference
	assert.Assert(t, !eq("a.id", "b.a_id").Matches(Fields{"a.id": "1", "b.a_id": "1"}))
}

func TestConditionGroupFilter(t *testing.T) {
	rows := []Fields{
		{"t.id": "1"},
		{"t.id": "2"},
		{"t.id": "3"},
	}

	assert.Equal(t, len(ConditionGroup(nil).Filter(rows)), 3)

	kept := ConditionGroup{{eq("t.id", "2")}, {eq("t.id", "3")}}.Filter(rows)
	assert.DeepEqual(t, kept, []Fields{{"t.id": "2"}, {"t.id": "3"}})

	assert.Equal(t, len(ConditionGroup{}.Filter(rows)), 0)
}

func TestConditionGroupString(t *testing.T) {
	group := ConditionGroup{
		{eq("t.A", "1"), {Field: "t.B", Value: "u.B", Ref: true}},
		{eq("t.C", "3")},
	}
	assert.Equal(t, group.String(), "t.A = '1' AND t.B = u.B OR t.C = '3'")
}
