package query

import "strings"

type CommandKind int

const (
	CommandInsert CommandKind = iota
	CommandDelete
	CommandSelect
)

func (k CommandKind) String() string {
	switch k {
	case CommandInsert:
		return "INSERT"
	case CommandDelete:
		return "DELETE"
	case CommandSelect:
		return "SELECT"
	}
	return "UNKNOWN"
}

// Command is one parsed statement. Commands are never modified after parsing
// and may be shared between concurrent executions.
type Command interface {
	Kind() CommandKind
	// Tables lists every table the command touches, in statement order.
	Tables() []string
}

// Insert appends one row per value tuple; the primary key is not part of Rows.
type Insert struct {
	Table string
	Rows  [][]string
}

func (c *Insert) Kind() CommandKind { return CommandInsert }
func (c *Insert) Tables() []string  { return []string{c.Table} }

type Delete struct {
	Table string
	Where ConditionGroup
}

func (c *Delete) Kind() CommandKind { return CommandDelete }
func (c *Delete) Tables() []string  { return []string{c.Table} }

// Column is a table-qualified projection entry.
type Column struct {
	Table string
	Name  string
}

func (c Column) String() string { return c.Table + "." + c.Name }

type Select struct {
	From []string
	// projection in declared order
	Columns []Column
	// nil when the statement has no WHERE clause
	Where ConditionGroup
}

func (c *Select) Kind() CommandKind { return CommandSelect }
func (c *Select) Tables() []string  { return c.From }

// ColumnsOf returns the projected column names of {table}, in declared order.
func (c *Select) ColumnsOf(table string) []string {
	columns := []string{}
	for _, col := range c.Columns {
		if col.Table == table {
			columns = append(columns, col.Name)
		}
	}
	return columns
}

func (c *Select) HasWhere() bool { return c.Where != nil }

func (c *Select) String() string {
	cols := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = col.String()
	}
	s := "SELECT " + strings.Join(cols, ", ") + " FROM " + strings.Join(c.From, ", ")
	if c.HasWhere() {
		s += " WHERE " + c.Where.String()
	}
	return s
}
