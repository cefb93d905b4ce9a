package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when an explicit dimension or measure
	// list names a column that does not exist.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrColumnRole is returned when a column's type is incompatible with
	// the requested role (e.g. a float column used as a dimension).
	ErrColumnRole = errors.New("column type incompatible with role")
)

// Schema is the result of splitting a table into dimension and measure
// columns.
type Schema struct {
	Dimensions []*Column
	Measures   []*Column
}

// Classify splits the table's columns into dimensions and measures.
//
// If measures is nil, every numeric (int or float) column becomes a
// measure. If dimensions is nil, every remaining non-float column becomes
// a dimension: strings, booleans, temporals, and integer columns that were
// explicitly claimed as neither. Float columns are never dimensions.
//
// Explicit lists override the defaults and are validated: unknown names
// and role-incompatible types abort classification.
func Classify(t *Table, dimensions, measures []string) (*Schema, error) {
	s := &Schema{}

	measureSet := make(map[string]bool)
	if measures == nil {
		for _, c := range t.Columns() {
			if c.Type() == TypeInt || c.Type() == TypeFloat {
				s.Measures = append(s.Measures, c)
				measureSet[c.Name()] = true
			}
		}
	} else {
		for _, name := range measures {
			c := t.Column(name)
			if c == nil {
				return nil, fmt.Errorf("%w: measure %q", ErrUnknownColumn, name)
			}
			if c.Type() != TypeInt && c.Type() != TypeFloat {
				return nil, fmt.Errorf("%w: measure %q is %s, want numeric", ErrColumnRole, name, c.Type())
			}
			s.Measures = append(s.Measures, c)
			measureSet[name] = true
		}
	}

	if dimensions == nil {
		for _, c := range t.Columns() {
			if measureSet[c.Name()] || c.Type() == TypeFloat {
				continue
			}
			s.Dimensions = append(s.Dimensions, c)
		}
	} else {
		for _, name := range dimensions {
			c := t.Column(name)
			if c == nil {
				return nil, fmt.Errorf("%w: dimension %q", ErrUnknownColumn, name)
			}
			if c.Type() == TypeFloat {
				return nil, fmt.Errorf("%w: dimension %q is float64", ErrColumnRole, name)
			}
			s.Dimensions = append(s.Dimensions, c)
		}
	}

	return s, nil
}
