// Package table is the tabular-source boundary of the engine.
//
// A Table is an ordered collection of equally sized, typed columns. The
// engine reads it once at build time and drops the reference afterwards;
// the index is invalid if the backing data is reordered after build.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns is returned when a table is created without columns.
	ErrNoColumns = errors.New("table has no columns")
	// ErrColumnLength is returned when column lengths differ.
	ErrColumnLength = errors.New("columns have different lengths")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Table is an immutable, in-memory columnar table.
type Table struct {
	cols   []*Column
	byName map[string]int
	rows   int
}

// New creates a table from the given columns. All columns must have the
// same length and unique names.
func New(cols ...*Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}

	t := &Table{
		cols:   cols,
		byName: make(map[string]int, len(cols)),
		rows:   cols[0].Len(),
	}
	for i, c := range cols {
		if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrColumnLength, c.Name(), c.Len(), t.rows)
		}
		if _, ok := t.byName[c.Name()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name())
		}
		t.byName[c.Name()] = i
	}
	return t, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column { return t.cols }

// Column returns the named column, or nil if it does not exist.
func (t *Table) Column(name string) *Column {
	i, ok := t.byName[name]
	if !ok {
		return nil
	}
	return t.cols[i]
}
