package services

import (
	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/core/domain"
)

// Table is an in-memory set of rows handed to the codec one at a time.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cursor tracks which row of a Table is written next. Its Next method is a
// write handler: it returns the rows in order and an empty record once the
// table is exhausted.
type Cursor struct {
	table *Table
	pos   int
}

func NewCursor(table *Table) *Cursor {
	return &Cursor{table: table}
}

func (c *Cursor) Next(_ domain.Options, _ logr.Logger) ([]any, error) {
	if c.pos >= c.table.Len() {
		return []any{}, nil
	}
	row := c.table.Rows[c.pos]
	c.pos++
	// Copy so the codec never shares the table's backing array.
	return append([]any(nil), row...), nil
}

// Position is the number of rows handed out so far.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining is the number of rows not yet handed out.
func (c *Cursor) Remaining() int {
	return c.table.Len() - c.pos
}
