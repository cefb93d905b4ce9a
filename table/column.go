package table

import (
	"math"
	"time"

	"github.com/hupe1980/nanocube/member"
)

// ColumnType identifies the element type of a column.
type ColumnType uint8

const (
	// TypeInvalid represents an invalid column type.
	TypeInvalid ColumnType = iota
	// TypeString holds string values.
	TypeString
	// TypeBool holds boolean values.
	TypeBool
	// TypeInt holds 64-bit integer values.
	TypeInt
	// TypeFloat holds 64-bit float values.
	TypeFloat
	// TypeTime holds temporal values.
	TypeTime
)

// String returns the stable name of the column type.
func (ct ColumnType) String() string {
	switch ct {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int64"
	case TypeFloat:
		return "float64"
	case TypeTime:
		return "time"
	default:
		return "invalid"
	}
}

// Column is a named, typed vector of values. An optional null mask marks
// missing entries; a row whose mask bit is set is indexed under the null
// member (dimensions) or treated as NaN (measures).
type Column struct {
	name  string
	typ   ColumnType
	nulls []bool

	strs   []string
	bools  []bool
	ints   []int64
	floats []float64
	times  []time.Time
}

// NewStringColumn creates a string column.
func NewStringColumn(name string, values []string) *Column {
	return &Column{name: name, typ: TypeString, strs: values}
}

// NewBoolColumn creates a boolean column.
func NewBoolColumn(name string, values []bool) *Column {
	return &Column{name: name, typ: TypeBool, bools: values}
}

// NewIntColumn creates an integer column.
func NewIntColumn(name string, values []int64) *Column {
	return &Column{name: name, typ: TypeInt, ints: values}
}

// NewFloatColumn creates a float column. NaN entries count as missing.
func NewFloatColumn(name string, values []float64) *Column {
	return &Column{name: name, typ: TypeFloat, floats: values}
}

// NewTimeColumn creates a temporal column.
func NewTimeColumn(name string, values []time.Time) *Column {
	return &Column{name: name, typ: TypeTime, times: values}
}

// WithNulls attaches a null mask to the column. The mask must have the
// same length as the column data.
func (c *Column) WithNulls(nulls []bool) *Column {
	c.nulls = nulls
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the element type.
func (c *Column) Type() ColumnType { return c.typ }

// Len returns the number of rows.
func (c *Column) Len() int {
	switch c.typ {
	case TypeString:
		return len(c.strs)
	case TypeBool:
		return len(c.bools)
	case TypeInt:
		return len(c.ints)
	case TypeFloat:
		return len(c.floats)
	case TypeTime:
		return len(c.times)
	default:
		return 0
	}
}

// IsNull reports whether the entry at row is missing.
func (c *Column) IsNull(row int) bool {
	if c.nulls != nil && c.nulls[row] {
		return true
	}
	if c.typ == TypeFloat {
		return math.IsNaN(c.floats[row])
	}
	return false
}

// Member returns the entry at row as a dimension member. Missing entries
// map to the null member so every row lands in exactly one bucket.
func (c *Column) Member(row int) member.Value {
	if c.IsNull(row) {
		return member.Null()
	}
	switch c.typ {
	case TypeString:
		return member.String(c.strs[row])
	case TypeBool:
		return member.Bool(c.bools[row])
	case TypeInt:
		return member.Int(c.ints[row])
	case TypeTime:
		return member.Time(c.times[row])
	default:
		return member.Null()
	}
}

// HasNulls reports whether any entry is missing.
func (c *Column) HasNulls() bool {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			return true
		}
	}
	return false
}

// Float64s returns the column as a float64 vector. Integer entries are
// widened; missing entries become NaN.
func (c *Column) Float64s() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		if c.IsNull(i) {
			out[i] = math.NaN()
			continue
		}
		switch c.typ {
		case TypeFloat:
			out[i] = c.floats[i]
		case TypeInt:
			out[i] = float64(c.ints[i])
		}
	}
	return out
}

// Int64s returns the raw integer vector. Only valid for TypeInt columns
// without missing entries.
func (c *Column) Int64s() []int64 { return c.ints }
