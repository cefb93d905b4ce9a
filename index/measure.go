package index

import (
	"fmt"

	"github.com/hupe1980/nanocube/table"
)

// NumericKind is the element type of a measure vector. It is recorded in
// snapshots so vectors restore with their original width.
type NumericKind uint8

const (
	// Float64 holds IEEE 754 double values.
	Float64 NumericKind = iota + 1
	// Int64 holds signed 64-bit integers.
	Int64
)

// String returns the stable name of the numeric kind.
func (k NumericKind) String() string {
	switch k {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	default:
		return "invalid"
	}
}

// ParseNumericKind resolves a numeric kind name from snapshot metadata.
func ParseNumericKind(s string) (NumericKind, error) {
	switch s {
	case "float64":
		return Float64, nil
	case "int64":
		return Int64, nil
	default:
		return 0, fmt.Errorf("unknown measure element type %q", s)
	}
}

// Measure is a flat numeric vector, one value per row in original row
// order. No transformation is applied at build time.
type Measure struct {
	name   string
	kind   NumericKind
	floats []float64
	ints   []int64
}

// ExtractMeasure takes the raw vector of a numeric column. Integer columns
// keep their width unless they contain missing entries, in which case the
// vector widens to float64 with NaN gaps (matching how aggregation treats
// missing data).
func ExtractMeasure(col *table.Column) (*Measure, error) {
	switch col.Type() {
	case table.TypeFloat:
		return &Measure{name: col.Name(), kind: Float64, floats: col.Float64s()}, nil
	case table.TypeInt:
		if col.HasNulls() {
			return &Measure{name: col.Name(), kind: Float64, floats: col.Float64s()}, nil
		}
		return &Measure{name: col.Name(), kind: Int64, ints: col.Int64s()}, nil
	default:
		return nil, fmt.Errorf("measure %q: column type %s is not numeric", col.Name(), col.Type())
	}
}

// RestoreFloatMeasure reassembles a float64 measure from snapshot bytes.
func RestoreFloatMeasure(name string, values []float64) *Measure {
	return &Measure{name: name, kind: Float64, floats: values}
}

// RestoreIntMeasure reassembles an int64 measure from snapshot bytes.
func RestoreIntMeasure(name string, values []int64) *Measure {
	return &Measure{name: name, kind: Int64, ints: values}
}

// Name returns the measure name.
func (m *Measure) Name() string { return m.name }

// Kind returns the element type.
func (m *Measure) Kind() NumericKind { return m.kind }

// Len returns the number of rows.
func (m *Measure) Len() int {
	if m.kind == Int64 {
		return len(m.ints)
	}
	return len(m.floats)
}

// Float64s returns the raw vector for Float64 measures.
func (m *Measure) Float64s() []float64 { return m.floats }

// Int64s returns the raw vector for Int64 measures.
func (m *Measure) Int64s() []int64 { return m.ints }

// At returns the value at the given row as float64.
func (m *Measure) At(row uint32) float64 {
	if m.kind == Int64 {
		return float64(m.ints[row])
	}
	return m.floats[row]
}
