package repository

// Column describes one column of a warehouse table.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	Nullable   bool
	ForeignKey string // "table.column", empty when none
}

// Table is a warehouse table with its record count.
type Table struct {
	Name    string
	Columns []Column
	Records int
}

// Relationship is a foreign key edge.
type Relationship struct {
	FromTable  string
	FromColumn string
	To         string
}

// Cell is a rendered column value.
type Cell struct {
	Text string
	Null bool
}

// String renders NULL for null cells.
func (c Cell) String() string {
	if c.Null {
		return "NULL"
	}
	return c.Text
}

// RowSet holds rows read from a table.
type RowSet struct {
	Columns []string
	Rows    [][]Cell
}
